package engine

import (
	"sync"

	"clobengine/internal/common"

	"github.com/google/uuid"
)

// orderIndex is the engine-wide id -> order and user -> order-ids index. It
// stores a copy of each order's state, never the pointer the book mutates
// in place during matching, so readers here never alias memory that is only
// safe to touch under the book's own lock (spec.md §3: "the book holds a
// working copy updated in place during matching, with the global index
// reconciled on each state change" describes two synchronised objects, not
// one shared pointer). Callers must reconcile an entry with put whenever the
// book hands back a fresh snapshot (matching.Result.Final, .MakerUpdates, or
// an OrderBook.Remove result) — see internal/engine/engine.go.
//
// orderIndex is guarded by its own lock, independent of any book lock. No
// Engine method holds a book lock (taken inside book.OrderBook and
// matching.Submit) and this index's lock at the same time: each index call
// takes and releases its lock on its own, before or after the book call, so
// the two locks are never nested.
type orderIndex struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]common.Order
	byUser map[string]map[uuid.UUID]struct{}
}

func newOrderIndex() *orderIndex {
	return &orderIndex{
		byID:   make(map[uuid.UUID]common.Order),
		byUser: make(map[string]map[uuid.UUID]struct{}),
	}
}

// put inserts or reconciles the index's copy of order.
func (idx *orderIndex) put(order common.Order) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.byID[order.ID] = order
	set, ok := idx.byUser[order.UserID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		idx.byUser[order.UserID] = set
	}
	set[order.ID] = struct{}{}
}

func (idx *orderIndex) get(id uuid.UUID) (common.Order, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	o, ok := idx.byID[id]
	return o, ok
}

func (idx *orderIndex) byUserID(user string) []common.Order {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := idx.byUser[user]
	out := make([]common.Order, 0, len(ids))
	for id := range ids {
		out = append(out, idx.byID[id])
	}
	return out
}
