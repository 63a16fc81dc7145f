// Package marketdata maintains a rolling 24h-style summary per symbol from
// the last 1,000 trades, recomputed from that window each time it is read
// (spec.md §4.6).
package marketdata

import (
	"sync"

	"clobengine/internal/common"

	"github.com/shopspring/decimal"
)

// Window caps how many of the most recent trades feed a symbol's summary.
const Window = 1_000

// Summary is the point-in-time market-data snapshot for one symbol.
type Summary struct {
	Symbol      common.Symbol
	LastPrice   decimal.Decimal
	High        decimal.Decimal
	Low         decimal.Decimal
	Volume      decimal.Decimal // quote-asset volume: sum(quantity * price)
	ChangePct   decimal.Decimal // percentage, oldest-in-window -> newest
	TradeCount  int
}

// Tracker incrementally maintains a ring of the most recent Window trades
// per symbol, from which each Summary is computed, per spec.md §4.6
// ("implementation may maintain incremental rolling state for efficiency").
type Tracker struct {
	mu      sync.RWMutex
	symbols map[common.Symbol]*ring
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{symbols: make(map[common.Symbol]*ring)}
}

// Record folds a new trade into its symbol's rolling window.
func (t *Tracker) Record(trade common.Trade) {
	t.mu.Lock()
	r, ok := t.symbols[trade.Symbol]
	if !ok {
		r = newRing(Window)
		t.symbols[trade.Symbol] = r
	}
	t.mu.Unlock()

	r.push(trade)
}

// Summary returns the current summary for symbol, and false if no trades
// have ever been recorded for it.
func (t *Tracker) Summary(symbol common.Symbol) (Summary, bool) {
	t.mu.RLock()
	r, ok := t.symbols[symbol]
	t.mu.RUnlock()
	if !ok {
		return Summary{}, false
	}
	return r.summary(symbol), true
}

// All returns a summary for every symbol that has ever traded.
func (t *Tracker) All() []Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Summary, 0, len(t.symbols))
	for sym, r := range t.symbols {
		out = append(out, r.summary(sym))
	}
	return out
}

// ring is a fixed-capacity circular buffer of trades for one symbol. push
// only stores the trade; summary recomputes the Summary from scratch each
// time it is called. Window is small enough
// (1,000) that an O(n) recompute per trade is cheap and exact, avoiding the
// drift incremental high/low/volume accumulators can develop.
type ring struct {
	mu     sync.Mutex
	buf    []common.Trade
	cap    int
	start  int
	length int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]common.Trade, capacity), cap: capacity}
}

func (r *ring) push(trade common.Trade) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.length < r.cap {
		r.buf[(r.start+r.length)%r.cap] = trade
		r.length++
	} else {
		r.buf[r.start] = trade
		r.start = (r.start + 1) % r.cap
	}
}

func (r *ring) summary(symbol common.Symbol) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{Symbol: symbol, Low: decimal.Zero}
	if r.length == 0 {
		return s
	}

	oldest := r.buf[r.start]
	var newest common.Trade
	high := oldest.Price
	low := oldest.Price
	volume := decimal.Zero

	for i := 0; i < r.length; i++ {
		idx := (r.start + i) % r.cap
		tr := r.buf[idx]
		if tr.Price.GreaterThan(high) {
			high = tr.Price
		}
		if tr.Price.LessThan(low) {
			low = tr.Price
		}
		volume = volume.Add(tr.Quantity.Mul(tr.Price))
		newest = tr
	}

	s.LastPrice = newest.Price
	s.High = high
	s.Low = low
	s.Volume = volume
	s.TradeCount = r.length
	if !oldest.Price.IsZero() {
		s.ChangePct = newest.Price.Sub(oldest.Price).Div(oldest.Price).Mul(decimal.NewFromInt(100))
	}
	return s
}
