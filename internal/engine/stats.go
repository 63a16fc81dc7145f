package engine

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Stats is a point-in-time snapshot of engine-wide counters (spec.md §3/§8
// P4, given a concrete type here per original_source/'s monitoring
// counters).
type Stats struct {
	TotalOrders  int64
	TotalTrades  int64
	TotalVolume  decimal.Decimal
	ActiveOrders int64
	StartTime    time.Time
	Uptime       time.Duration
}

// statCounters is the mutable, lock-guarded counter state an Engine updates
// as orders are submitted, matched and cancelled. P4 requires these to be
// monotone (orders/trades) or exactly reconciled (active orders); keeping
// them behind their own mutex, separate from any book lock, matches
// spec.md §5's "global order index and trade log...guarded by their own
// read/write discipline".
type statCounters struct {
	mu           sync.RWMutex
	totalOrders  int64
	totalTrades  int64
	totalVolume  decimal.Decimal
	activeOrders int64
	startTime    time.Time
}

func newStatCounters() *statCounters {
	return &statCounters{totalVolume: decimal.Zero, startTime: time.Now()}
}

func (s *statCounters) orderSubmitted() {
	s.mu.Lock()
	s.totalOrders++
	s.activeOrders++
	s.mu.Unlock()
}

func (s *statCounters) orderLeftActive() {
	s.mu.Lock()
	s.activeOrders--
	s.mu.Unlock()
}

func (s *statCounters) tradeRecorded(notional decimal.Decimal) {
	s.mu.Lock()
	s.totalTrades++
	s.totalVolume = s.totalVolume.Add(notional)
	s.mu.Unlock()
}

func (s *statCounters) snapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		TotalOrders:  s.totalOrders,
		TotalTrades:  s.totalTrades,
		TotalVolume:  s.totalVolume,
		ActiveOrders: s.activeOrders,
		StartTime:    s.startTime,
		Uptime:       time.Since(s.startTime),
	}
}
