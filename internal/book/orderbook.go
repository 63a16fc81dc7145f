package book

import (
	"sync"

	"clobengine/internal/common"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// location pins a resting order's (side, price) so it can be found in O(log
// n) for Remove/UpdateRemaining, per spec.md §3's order-location index.
type location struct {
	side  common.Side
	price ScaledPrice
}

// DepthLevel is one aggregated price level in a depth snapshot (spec.md
// §4.2 depth(N)).
type DepthLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Orders   int
}

// Stats is a point-in-time snapshot of per-side bucket and quantity totals
// (spec.md §4.2 `stats`).
type Stats struct {
	BidLevels, AskLevels int
	BidOrders, AskOrders int
	BidQty, AskQty       decimal.Decimal
}

// OrderBook is the two-sided price-time-priority book for a single symbol.
// Bids are kept highest-price-first, asks lowest-price-first, both as
// btree-ordered maps of price -> bucket (spec.md §3).
//
// Concurrency: a single-writer/multi-reader discipline per spec.md §5 —
// Add/Remove/UpdateRemaining/Match take the write lock, all other operations
// take the read lock.
type OrderBook struct {
	Symbol common.Symbol

	mu   sync.RWMutex
	bids *btree.BTreeG[*priceLevelBucket]
	asks *btree.BTreeG[*priceLevelBucket]
	loc  map[uuid.UUID]location
	seq  uint64
}

// New creates an empty order book for symbol.
func New(symbol common.Symbol) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		// Highest price sorts first.
		bids: btree.NewBTreeG(func(a, b *priceLevelBucket) bool { return a.price > b.price }),
		// Lowest price sorts first.
		asks: btree.NewBTreeG(func(a, b *priceLevelBucket) bool { return a.price < b.price }),
		loc:  make(map[uuid.UUID]location),
	}
}

func (ob *OrderBook) sideTree(side common.Side) *btree.BTreeG[*priceLevelBucket] {
	if side == common.Buy {
		return ob.bids
	}
	return ob.asks
}

// Add inserts order at the tail of its price bucket (spec.md §4.2 `add`).
// Limit orders must carry a positive price; Market orders are never resting
// and must not be passed to Add.
func (ob *OrderBook) Add(order *common.Order) error {
	if order.Symbol != ob.Symbol {
		return common.ErrSymbolMismatch
	}
	if order.RemainingQty.Sign() <= 0 {
		return common.ErrNonPositiveQuantity
	}
	if order.Price == nil {
		return common.ErrLimitWithoutPrice
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	price := toScaled(*order.Price)
	tree := ob.sideTree(order.Side)

	bucket, ok := tree.Get(&priceLevelBucket{price: price})
	if !ok {
		bucket = newPriceLevelBucket(price)
		tree.Set(bucket)
	}

	ob.seq++
	bucket.append(order, ob.seq)
	ob.loc[order.ID] = location{side: order.Side, price: price}

	log.Debug().
		Str("symbol", ob.Symbol.String()).
		Str("order_id", order.ID.String()).
		Str("side", order.Side.String()).
		Str("price", order.Price.String()).
		Str("remaining", order.RemainingQty.String()).
		Msg("order added to book")
	return nil
}

// Remove structurally removes an order from the book (spec.md §4.2
// `remove`). It does not change the order's Status; callers decide what
// status a removed order gets (Cancelled for a cancellation, nothing for a
// removal that is immediately followed by re-insertion elsewhere).
func (ob *OrderBook) Remove(id uuid.UUID) (*common.Order, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.removeLocked(id)
}

func (ob *OrderBook) removeLocked(id uuid.UUID) (*common.Order, error) {
	loc, ok := ob.loc[id]
	if !ok {
		return nil, common.ErrOrderNotFound
	}
	tree := ob.sideTree(loc.side)
	bucket, ok := tree.Get(&priceLevelBucket{price: loc.price})
	if !ok {
		// Location index says the bucket should exist; if it doesn't, the
		// book's internal invariants are broken. That's a bug, not a
		// recoverable user error (spec.md §7).
		panic("book: location index points at a missing price bucket")
	}
	order, ok := bucket.remove(id)
	if !ok {
		panic("book: location index points at an order missing from its bucket")
	}
	delete(ob.loc, id)
	if bucket.empty() {
		tree.Delete(bucket)
	}
	return order, nil
}

// UpdateRemaining mutates an order's filled/remaining quantities in place
// (spec.md §4.2 `update_remaining`). newRemaining must not exceed the
// order's current remaining quantity. If newRemaining reaches zero the
// order is structurally removed from the book and its status becomes
// Filled; otherwise it stays resting with status PartiallyFilled.
func (ob *OrderBook) UpdateRemaining(id uuid.UUID, newRemaining decimal.Decimal) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.updateRemainingLocked(id, newRemaining)
}

// updateRemainingLocked is UpdateRemaining's body, factored out so Match can
// drive the same cascade/removal logic while it already holds ob.mu — the
// mutex is not reentrant, so Match cannot call UpdateRemaining itself.
func (ob *OrderBook) updateRemainingLocked(id uuid.UUID, newRemaining decimal.Decimal) error {
	loc, ok := ob.loc[id]
	if !ok {
		return common.ErrOrderNotFound
	}
	tree := ob.sideTree(loc.side)
	bucket, ok := tree.Get(&priceLevelBucket{price: loc.price})
	if !ok {
		panic("book: location index points at a missing price bucket")
	}
	order, ok := bucket.get(id)
	if !ok {
		panic("book: location index points at an order missing from its bucket")
	}
	if newRemaining.GreaterThan(order.RemainingQty) {
		panic("book: update_remaining called with a quantity above the current remaining quantity")
	}

	delta := newRemaining.Sub(order.RemainingQty)
	filledQty := order.RemainingQty.Sub(newRemaining)
	order.ApplyFill(filledQty)
	bucket.adjustRemaining(delta)

	if newRemaining.IsZero() {
		if _, err := ob.removeLocked(id); err != nil {
			panic("book: failed to remove a fully-filled resting order: " + err.Error())
		}
	}
	return nil
}

// BestBid returns the highest resting bid price, if any.
func (ob *OrderBook) BestBid() (decimal.Decimal, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	b, ok := ob.bids.Min()
	if !ok {
		return decimal.Zero, false
	}
	return b.price.Decimal(), true
}

// BestAsk returns the lowest resting ask price, if any.
func (ob *OrderBook) BestAsk() (decimal.Decimal, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	a, ok := ob.asks.Min()
	if !ok {
		return decimal.Zero, false
	}
	return a.price.Decimal(), true
}

// Spread returns best_ask - best_bid, or false if either side is empty
// (spec.md §4.2 `spread`).
func (ob *OrderBook) Spread() (decimal.Decimal, bool) {
	bid, bidOk := ob.BestBid()
	ask, askOk := ob.BestAsk()
	if !bidOk || !askOk {
		return decimal.Zero, false
	}
	return ask.Sub(bid), true
}

// Depth returns the top-N aggregated price levels per side (spec.md §4.2
// `depth(N)`): bids highest-first, asks lowest-first.
func (ob *OrderBook) Depth(n int) (bids, asks []DepthLevel) {
	if n < 1 {
		n = 1
	}
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return depthOf(ob.bids, n), depthOf(ob.asks, n)
}

func depthOf(tree *btree.BTreeG[*priceLevelBucket], n int) []DepthLevel {
	levels := make([]DepthLevel, 0, n)
	tree.Scan(func(b *priceLevelBucket) bool {
		levels = append(levels, DepthLevel{
			Price:    b.price.Decimal(),
			Quantity: b.totalRemaining,
			Orders:   b.len(),
		})
		return len(levels) < n
	})
	return levels
}

// Stats returns per-side bucket and quantity totals (spec.md §4.2 `stats`).
func (ob *OrderBook) Stats() Stats {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	s := Stats{
		BidLevels: ob.bids.Len(),
		AskLevels: ob.asks.Len(),
		BidQty:    decimal.Zero,
		AskQty:    decimal.Zero,
	}
	ob.bids.Scan(func(b *priceLevelBucket) bool {
		s.BidOrders += b.len()
		s.BidQty = s.BidQty.Add(b.totalRemaining)
		return true
	})
	ob.asks.Scan(func(b *priceLevelBucket) bool {
		s.AskOrders += b.len()
		s.AskQty = s.AskQty.Add(b.totalRemaining)
		return true
	})
	return s
}

// marketable reports whether incoming (resting on the opposite side from
// restingPrice) can trade against a resting order at restingPrice, per
// spec.md §4.2's price-time priority rule. Market orders are always
// marketable; a Limit Buy requires incoming.Price >= restingPrice (the ask),
// a Limit Sell requires incoming.Price <= restingPrice (the bid).
func marketable(incoming *common.Order, restingPrice ScaledPrice) bool {
	if incoming.Type == common.Market {
		return true
	}
	incomingPrice := toScaled(*incoming.Price)
	if incoming.Side == common.Buy {
		return incomingPrice >= restingPrice
	}
	return incomingPrice <= restingPrice
}

// Match scans resting orders on the side opposite incoming, in price-time
// priority (spec.md §4.2 `scan_matches` fused with the fill step, since a
// read lock cannot be upgraded to a write lock mid-scan): best price first,
// then ascending arrival sequence within a price level. For every resting
// order it can trade against, it applies the fill to both incoming and the
// resting order (via updateRemainingLocked, so a fully-filled resting order
// cascades through the same removal path UpdateRemaining uses), asks onFill
// to produce the Trade for that fill (the execution-price rule and trade
// shape are the matching algorithm's decision, not the book's — see
// internal/matching), and hands onRestingUpdated a copy of the resting
// order's post-fill state. That copy, like the incoming-order copy Match
// returns, is taken while ob.mu is still held: callers needing a race-free
// snapshot of an order the book mutates in place (e.g. to reconcile an
// external index) must take it here, not by dereferencing the pointer after
// Match returns. Iteration stops when incoming.RemainingQty reaches zero or
// the opposite side is no longer marketable against incoming.
//
// Match takes the book's single write lock for its entire duration: one
// submission is atomic with respect to its own book (spec.md §5).
func (ob *OrderBook) Match(
	incoming *common.Order,
	onFill func(resting *common.Order, seq uint64, qty decimal.Decimal) common.Trade,
	onRestingUpdated func(resting common.Order),
) ([]common.Trade, common.Order) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	var opposite *btree.BTreeG[*priceLevelBucket]
	if incoming.Side == common.Buy {
		opposite = ob.asks
	} else {
		opposite = ob.bids
	}

	var trades []common.Trade
	for incoming.RemainingQty.Sign() > 0 {
		bucket, ok := opposite.Min()
		if !ok || !marketable(incoming, bucket.price) {
			break
		}

		resting, ok := bucket.front()
		if !ok {
			// Emptied itself out from under the tree; structural bug.
			panic("book: best price bucket reports no front order")
		}
		seq := bucket.index[resting.ID].Value.(*entry).seq

		qty := incoming.RemainingQty
		if resting.RemainingQty.LessThan(qty) {
			qty = resting.RemainingQty
		}

		trade := onFill(resting, seq, qty)
		trades = append(trades, trade)

		incoming.ApplyFill(qty)
		if err := ob.updateRemainingLocked(resting.ID, resting.RemainingQty.Sub(qty)); err != nil {
			panic("book: resting order vanished mid-match: " + err.Error())
		}
		if onRestingUpdated != nil {
			onRestingUpdated(*resting)
		}
	}
	return trades, *incoming
}
