package broadcast

import "clobengine/internal/common"

// Default per-subscriber buffer sizes (spec.md §4.5 recommendation): trades
// and order updates are high-frequency and get generous buffers; market-data
// snapshots are coalesced upstream and need far less room.
const (
	TradeBufferSize       = 10_000
	OrderUpdateBufferSize = 10_000
	MarketDataBufferSize  = 1_000
)

// OrderUpdate is published whenever an order's status or filled quantity
// changes: on acceptance, partial fill, full fill, cancellation and
// rejection.
type OrderUpdate struct {
	Order  common.Order
	Reason string
}

// Feeds bundles the three independent event streams the engine publishes.
// Each stream is its own Hub so a slow subscriber to one never affects the
// others.
type Feeds struct {
	Trades       *Hub[common.Trade]
	OrderUpdates *Hub[OrderUpdate]
	MarketData   *Hub[common.Symbol]
}

// NewFeeds constructs the three feeds with their recommended buffer sizes.
// MarketData publishes just the symbol that changed; subscribers re-read the
// current summary from the marketdata package, keeping the feed itself free
// of staleness.
func NewFeeds() *Feeds {
	return NewFeedsWithSizes(TradeBufferSize, OrderUpdateBufferSize, MarketDataBufferSize)
}

// NewFeedsWithSizes is NewFeeds with caller-chosen per-subscriber buffer
// capacities, for callers (engine.Config) that want to override the
// defaults.
func NewFeedsWithSizes(tradeBuf, orderBuf, marketBuf int) *Feeds {
	return &Feeds{
		Trades:       NewHub[common.Trade]("trades", tradeBuf),
		OrderUpdates: NewHub[OrderUpdate]("order_updates", orderBuf),
		MarketData:   NewHub[common.Symbol]("market_data", marketBuf),
	}
}

// Shutdown stops all three feeds.
func (f *Feeds) Shutdown() {
	f.Trades.Shutdown()
	f.OrderUpdates.Shutdown()
	f.MarketData.Shutdown()
}
