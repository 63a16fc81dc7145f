package engine

import (
	"sync"

	"clobengine/internal/book"
	"clobengine/internal/broadcast"
	"clobengine/internal/common"
	"clobengine/internal/marketdata"
	"clobengine/internal/matching"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Engine is the multi-symbol façade (spec.md §4.4): one OrderBook per
// symbol, a global order index, a capped trade log, engine-wide statistics,
// a rolling market-data tracker, and the three event feeds.
type Engine struct {
	cfg Config

	mu    sync.RWMutex
	books map[common.Symbol]*book.OrderBook

	index  *orderIndex
	trades *tradeLog
	stats  *statCounters
	market *marketdata.Tracker
	feeds  *broadcast.Feeds
}

// New constructs an Engine with no symbols yet registered; books are
// created lazily on first submission for a symbol.
func New(cfg Config) *Engine {
	return &Engine{
		cfg:    cfg,
		books:  make(map[common.Symbol]*book.OrderBook),
		index:  newOrderIndex(),
		trades: newTradeLog(cfg.TradeLogCap),
		stats:  newStatCounters(),
		market: marketdata.NewTracker(),
		feeds:  cfg.feeds(),
	}
}

func (e *Engine) bookFor(symbol common.Symbol) *book.OrderBook {
	e.mu.RLock()
	ob, ok := e.books[symbol]
	e.mu.RUnlock()
	if ok {
		return ob
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if ob, ok := e.books[symbol]; ok {
		return ob
	}
	ob = book.New(symbol)
	e.books[symbol] = ob
	return ob
}

// SubmitOrder validates, routes to the order's book, runs matching, records
// the resulting trades and publishes events (spec.md §4.4 `submit_order`).
// It returns the trades generated for this submission; a non-nil error
// means either validation failed (no trades, no state change) or the order
// was a Market order whose residual could not be filled (Open Question 2 —
// the already-executed trades are still returned alongside the error).
func (e *Engine) SubmitOrder(order *common.Order) ([]common.Trade, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	ob := e.bookFor(order.Symbol)

	e.index.put(*order)
	e.stats.orderSubmitted()

	result := matching.Submit(ob, order)

	for _, trade := range result.Trades {
		e.trades.append(trade)
		e.stats.tradeRecorded(trade.Quantity.Mul(trade.Price))
		e.market.Record(trade)
		e.feeds.Trades.Publish(trade)
	}
	if len(result.Trades) > 0 {
		e.feeds.MarketData.Publish(order.Symbol)
	}

	// Every resting maker this submission filled left the active set too
	// (spec.md §8 P4: active orders == submitted - filled - cancelled -
	// rejected at every observable point) and gets its own index entry and
	// order-update event, since the book's Match loop never surfaces makers
	// through the incoming order's own status.
	for _, maker := range result.MakerUpdates {
		e.index.put(maker)
		if maker.Status.Terminal() {
			e.stats.orderLeftActive()
		}
		e.feeds.OrderUpdates.Publish(broadcast.OrderUpdate{Order: maker, Reason: "fill"})
	}

	e.index.put(result.Final)
	if result.Final.Status.Terminal() {
		e.stats.orderLeftActive()
	}
	e.feeds.OrderUpdates.Publish(broadcast.OrderUpdate{Order: result.Final, Reason: "submit"})

	log.Debug().
		Str("symbol", order.Symbol.String()).
		Str("order_id", order.ID.String()).
		Str("status", result.Final.Status.String()).
		Int("trades", len(result.Trades)).
		Msg("order submitted")

	return result.Trades, result.Err
}

// CancelOrder removes a resting order from its book and marks it Cancelled
// (spec.md §4.4 `cancel_order`).
func (e *Engine) CancelOrder(orderID uuid.UUID, requestingUser string) (common.Order, error) {
	order, ok := e.index.get(orderID)
	if !ok {
		return common.Order{}, common.ErrOrderNotFound
	}
	if order.UserID != requestingUser {
		return common.Order{}, common.ErrUserMismatch
	}
	switch order.Status {
	case common.Filled:
		return common.Order{}, common.ErrAlreadyFilled
	case common.Cancelled:
		return common.Order{}, common.ErrAlreadyCancelled
	case common.Rejected:
		return common.Order{}, common.ErrAlreadyTerminal
	}

	ob := e.bookFor(order.Symbol)
	removed, err := ob.Remove(orderID)
	if err != nil {
		return common.Order{}, err
	}

	removed.Status = common.Cancelled
	e.index.put(*removed)
	e.stats.orderLeftActive()
	e.feeds.OrderUpdates.Publish(broadcast.OrderUpdate{Order: *removed, Reason: "cancel"})

	log.Debug().
		Str("symbol", removed.Symbol.String()).
		Str("order_id", removed.ID.String()).
		Str("user_id", requestingUser).
		Msg("order cancelled")

	return *removed, nil
}

// GetOrder returns a snapshot of one order by id.
func (e *Engine) GetOrder(id uuid.UUID) (common.Order, error) {
	o, ok := e.index.get(id)
	if !ok {
		return common.Order{}, common.ErrOrderNotFound
	}
	return o, nil
}

// GetUserOrders returns a snapshot of every order ever submitted by user.
func (e *Engine) GetUserOrders(user string) []common.Order {
	return e.index.byUserID(user)
}

// GetOrderBookDepth returns the top-N aggregated levels per side for
// symbol.
func (e *Engine) GetOrderBookDepth(symbol common.Symbol, n int) (bids, asks []book.DepthLevel) {
	return e.bookFor(symbol).Depth(n)
}

// GetMarketData returns the current rolling summary for symbol.
func (e *Engine) GetMarketData(symbol common.Symbol) (marketdata.Summary, bool) {
	return e.market.Summary(symbol)
}

// GetAllMarketData returns the current rolling summary for every symbol
// that has ever traded.
func (e *Engine) GetAllMarketData() []marketdata.Summary {
	return e.market.All()
}

// GetTrades returns up to limit trades for symbol (or every symbol if
// symbol is the zero value), newest-first. limit <= 0 means unlimited.
func (e *Engine) GetTrades(symbol common.Symbol, limit int) []common.Trade {
	return e.trades.recent(symbol, limit)
}

// GetStats returns a snapshot of engine-wide counters.
func (e *Engine) GetStats() Stats {
	return e.stats.snapshot()
}

// SubscribeTrades returns a subscription to every trade executed from this
// point forward, across all symbols.
func (e *Engine) SubscribeTrades() *broadcast.Subscription[common.Trade] {
	return e.feeds.Trades.Subscribe()
}

// SubscribeOrders returns a subscription to every order-update event from
// this point forward.
func (e *Engine) SubscribeOrders() *broadcast.Subscription[broadcast.OrderUpdate] {
	return e.feeds.OrderUpdates.Subscribe()
}

// SubscribeMarketData returns a subscription naming the symbol whose
// rolling summary changed, from this point forward.
func (e *Engine) SubscribeMarketData() *broadcast.Subscription[common.Symbol] {
	return e.feeds.MarketData.Subscribe()
}

// Shutdown stops the event feeds. Books and logs need no explicit teardown.
func (e *Engine) Shutdown() {
	e.feeds.Shutdown()
}
