package book

import (
	"container/list"

	"clobengine/internal/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// entry is one resting order inside a bucket, tagged with the arrival
// sequence it was assigned on insert. Sequence is the sole tie-break key
// (spec.md §4.3): two orders may share a wall-clock timestamp, but never a
// sequence number.
type entry struct {
	order *common.Order
	seq   uint64
}

// priceLevelBucket is the FIFO queue of resting orders at a single price on
// one side of one book (spec.md §4.1). It is backed by a doubly-linked list
// plus an id->node index, giving O(1) append/remove/update, as spec.md
// recommends.
type priceLevelBucket struct {
	price          ScaledPrice
	orders         *list.List // of *entry, oldest (head) to newest (tail)
	index          map[uuid.UUID]*list.Element
	totalRemaining decimal.Decimal
}

func newPriceLevelBucket(price ScaledPrice) *priceLevelBucket {
	return &priceLevelBucket{
		price:  price,
		orders: list.New(),
		index:  make(map[uuid.UUID]*list.Element),
	}
}

// append adds an order to the tail of the bucket, assigning it seq.
func (b *priceLevelBucket) append(order *common.Order, seq uint64) {
	el := b.orders.PushBack(&entry{order: order, seq: seq})
	b.index[order.ID] = el
	b.totalRemaining = b.totalRemaining.Add(order.RemainingQty)
}

// remove unlinks an order from the bucket. Returns false if not present.
func (b *priceLevelBucket) remove(id uuid.UUID) (*common.Order, bool) {
	el, ok := b.index[id]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	b.orders.Remove(el)
	delete(b.index, id)
	b.totalRemaining = b.totalRemaining.Sub(e.order.RemainingQty)
	return e.order, true
}

// adjustRemaining reconciles the bucket's aggregate remaining quantity after
// an order's RemainingQty has been mutated in place (by ApplyFill). delta is
// the signed change (new - old).
func (b *priceLevelBucket) adjustRemaining(delta decimal.Decimal) {
	b.totalRemaining = b.totalRemaining.Add(delta)
}

func (b *priceLevelBucket) empty() bool {
	return b.orders.Len() == 0
}

func (b *priceLevelBucket) len() int {
	return b.orders.Len()
}

// forEach walks the bucket oldest-first (arrival order), stopping early if
// visit returns false.
func (b *priceLevelBucket) forEach(visit func(order *common.Order, seq uint64) bool) {
	for el := b.orders.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if !visit(e.order, e.seq) {
			return
		}
	}
}

// get returns the order for id without removing it.
func (b *priceLevelBucket) get(id uuid.UUID) (*common.Order, bool) {
	el, ok := b.index[id]
	if !ok {
		return nil, false
	}
	return el.Value.(*entry).order, true
}

// front returns the oldest resting order in the bucket, if any.
func (b *priceLevelBucket) front() (*common.Order, bool) {
	el := b.orders.Front()
	if el == nil {
		return nil, false
	}
	return el.Value.(*entry).order, true
}
