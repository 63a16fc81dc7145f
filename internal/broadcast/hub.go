// Package broadcast is a lossy multi-subscriber fan-out for engine events
// (trades, order updates, market-data snapshots — spec.md §4.5). Each
// subscriber gets its own bounded buffer; a subscriber that falls behind has
// its oldest-pending events dropped rather than ever slowing down the
// matching path. A subscription only ever sees events published after it
// was created.
package broadcast

import (
	"sync"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// Subscription is a single subscriber's view of a Hub. C delivers published
// values; it is closed when the subscriber unsubscribes or the hub shuts
// down.
type Subscription[T any] struct {
	C      <-chan T
	cancel func()
}

// Close unsubscribes, releasing the hub's reference to this subscription's
// channel. Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.cancel()
}

// subscriber is one subscription's delivery channel plus the lock that
// serialises Publish's evict-then-send sequence against concurrent
// publishers (Publish only takes the hub's read lock, so two goroutines can
// reach the same subscriber at once).
type subscriber[T any] struct {
	mu sync.Mutex
	ch chan T
}

// Hub is a generic lossy fan-out point for one event stream. Each
// subscriber's channel is treated as a ring buffer: Publish never blocks, so
// a full buffer gives up its oldest unread entry to make room for the
// newest one. The zero value is not usable; construct with NewHub.
type Hub[T any] struct {
	name    string
	bufSize int

	mu     sync.RWMutex
	subs   map[uint64]*subscriber[T]
	nextID uint64

	t tomb.Tomb
}

// NewHub creates a hub whose subscribers each get a channel of capacity
// bufSize. name is used only for logging.
func NewHub[T any](name string, bufSize int) *Hub[T] {
	if bufSize < 1 {
		bufSize = 1
	}
	h := &Hub[T]{
		name:    name,
		bufSize: bufSize,
		subs:    make(map[uint64]*subscriber[T]),
	}
	h.t.Go(func() error {
		<-h.t.Dying()
		h.closeAll()
		return nil
	})
	return h
}

// Subscribe registers a new subscriber and returns its Subscription. The
// subscriber sees only events Published after this call returns.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	sub := &subscriber[T]{ch: make(chan T, h.bufSize)}
	h.subs[id] = sub
	h.mu.Unlock()

	return &Subscription[T]{
		C:      sub.ch,
		cancel: func() { h.unsubscribe(id) },
	}
}

func (h *Hub[T]) unsubscribe(id uint64) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()
	if ok {
		close(sub.ch)
	}
}

// Publish fans v out to every current subscriber. A subscriber whose buffer
// is full has its oldest unread event evicted to make room for v — a
// drop-oldest ring, not a drop-newest channel — so Publish never blocks on a
// slow subscriber and never applies back-pressure to the caller.
func (h *Hub[T]) Publish(v T) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, sub := range h.subs {
		sub.mu.Lock()
		select {
		case sub.ch <- v:
		default:
			select {
			case <-sub.ch:
				log.Warn().Str("hub", h.name).Uint64("subscriber", id).Msg("subscriber buffer full, oldest event evicted")
			default:
			}
			select {
			case sub.ch <- v:
			default:
				// A concurrent receive refilled the slot we just freed;
				// drop v rather than retry indefinitely.
			}
		}
		sub.mu.Unlock()
	}
}

// SubscriberCount reports the number of live subscriptions.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub[T]) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		close(sub.ch)
		delete(h.subs, id)
	}
}

// Shutdown stops the hub and closes every live subscriber channel.
func (h *Hub[T]) Shutdown() {
	h.t.Kill(nil)
	_ = h.t.Wait()
}
