// Package engine is the multi-symbol façade: per-symbol books, a global
// order index, a capped trade log, statistics and the three event feeds
// (spec.md §4.4).
package engine

import "clobengine/internal/broadcast"

// Config configures an Engine. The zero value is usable: it disables the
// trade-log cap and falls back to the broadcast package's default buffer
// sizes.
type Config struct {
	// TradeLogCap bounds the number of trades retained in the in-memory
	// trade log; 0 means unbounded (spec.md §5's "expose a configurable
	// cap" ask on the otherwise-unbounded trade log).
	TradeLogCap int

	// TradeBufferSize, OrderUpdateBufferSize and MarketDataBufferSize
	// override the broadcast feeds' per-subscriber buffer capacities. Zero
	// means "use the package default".
	TradeBufferSize       int
	OrderUpdateBufferSize int
	MarketDataBufferSize  int
}

func (c Config) feeds() *broadcast.Feeds {
	trade := c.TradeBufferSize
	if trade == 0 {
		trade = broadcast.TradeBufferSize
	}
	order := c.OrderUpdateBufferSize
	if order == 0 {
		order = broadcast.OrderUpdateBufferSize
	}
	market := c.MarketDataBufferSize
	if market == 0 {
		market = broadcast.MarketDataBufferSize
	}
	return broadcast.NewFeedsWithSizes(trade, order, market)
}
