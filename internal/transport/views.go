package transport

import (
	"time"

	"clobengine/internal/book"
	"clobengine/internal/common"
	"clobengine/internal/engine"
	"clobengine/internal/marketdata"
)

// OrderView is the wire projection of common.Order: decimals and UUIDs
// become strings so the JSON is human-readable over a raw socket.
type OrderView struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Side         string  `json:"side"`
	Type         string  `json:"order_type"`
	Price        *string `json:"price,omitempty"`
	OrigQty      string  `json:"orig_qty"`
	FilledQty    string  `json:"filled_qty"`
	RemainingQty string  `json:"remaining_qty"`
	Status       string  `json:"status"`
	UserID       string  `json:"user_id"`
	SubmittedAt  string  `json:"submitted_at"`
}

func newOrderView(o common.Order) OrderView {
	v := OrderView{
		ID:           o.ID.String(),
		Symbol:       o.Symbol.String(),
		Side:         o.Side.String(),
		Type:         o.Type.String(),
		OrigQty:      o.OrigQty.String(),
		FilledQty:    o.FilledQty.String(),
		RemainingQty: o.RemainingQty.String(),
		Status:       o.Status.String(),
		UserID:       o.UserID,
		SubmittedAt:  o.SubmittedAt.Format(time.RFC3339Nano),
	}
	if o.Price != nil {
		p := o.Price.String()
		v.Price = &p
	}
	return v
}

// TradeView is the wire projection of common.Trade.
type TradeView struct {
	ID           string `json:"id"`
	Symbol       string `json:"symbol"`
	BuyOrderID   string `json:"buy_order_id"`
	SellOrderID  string `json:"sell_order_id"`
	Quantity     string `json:"quantity"`
	Price        string `json:"price"`
	Timestamp    string `json:"timestamp"`
	BuyerUserID  string `json:"buyer_user_id"`
	SellerUserID string `json:"seller_user_id"`
}

func newTradeView(t common.Trade) TradeView {
	return TradeView{
		ID:           t.ID.String(),
		Symbol:       t.Symbol.String(),
		BuyOrderID:   t.BuyOrderID.String(),
		SellOrderID:  t.SellOrderID.String(),
		Quantity:     t.Quantity.String(),
		Price:        t.Price.String(),
		Timestamp:    t.Timestamp.Format(time.RFC3339Nano),
		BuyerUserID:  t.BuyerUserID,
		SellerUserID: t.SellerUserID,
	}
}

func newTradeViews(trades []common.Trade) []TradeView {
	out := make([]TradeView, len(trades))
	for i, t := range trades {
		out[i] = newTradeView(t)
	}
	return out
}

// LevelView is the wire projection of book.DepthLevel.
type LevelView struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Orders   int    `json:"orders"`
}

func newLevelViews(levels []book.DepthLevel) []LevelView {
	out := make([]LevelView, len(levels))
	for i, l := range levels {
		out[i] = LevelView{Price: l.Price.String(), Quantity: l.Quantity.String(), Orders: l.Orders}
	}
	return out
}

// MarketDataView is the wire projection of marketdata.Summary.
type MarketDataView struct {
	Symbol     string `json:"symbol"`
	LastPrice  string `json:"last_price"`
	High       string `json:"high_24h"`
	Low        string `json:"low_24h"`
	Volume     string `json:"volume_24h"`
	ChangePct  string `json:"change_pct_24h"`
	TradeCount int    `json:"trade_count"`
}

func newMarketDataView(s marketdata.Summary) MarketDataView {
	return MarketDataView{
		Symbol:     s.Symbol.String(),
		LastPrice:  s.LastPrice.String(),
		High:       s.High.String(),
		Low:        s.Low.String(),
		Volume:     s.Volume.String(),
		ChangePct:  s.ChangePct.String(),
		TradeCount: s.TradeCount,
	}
}

func newMarketDataViews(summaries []marketdata.Summary) []MarketDataView {
	out := make([]MarketDataView, len(summaries))
	for i, s := range summaries {
		out[i] = newMarketDataView(s)
	}
	return out
}

// StatsView is the wire projection of engine.Stats.
type StatsView struct {
	TotalOrders  int64  `json:"total_orders"`
	TotalTrades  int64  `json:"total_trades"`
	TotalVolume  string `json:"total_volume"`
	ActiveOrders int64  `json:"active_orders"`
	UptimeSecs   int64  `json:"uptime_seconds"`
}

func newStatsView(s engine.Stats) StatsView {
	return StatsView{
		TotalOrders:  s.TotalOrders,
		TotalTrades:  s.TotalTrades,
		TotalVolume:  s.TotalVolume.String(),
		ActiveOrders: s.ActiveOrders,
		UptimeSecs:   int64(s.Uptime.Seconds()),
	}
}
