package transport

// RequestType tags a Request the way the teacher's MessageType tags a wire
// message, generalised from one NewOrder/CancelOrder/LogBook enum to the
// engine's full operation set (spec.md §4.4/§6).
type RequestType string

const (
	ReqSubmitOrder      RequestType = "submit_order"
	ReqCancelOrder      RequestType = "cancel_order"
	ReqGetOrder         RequestType = "get_order"
	ReqGetUserOrders    RequestType = "get_user_orders"
	ReqGetDepth         RequestType = "get_orderbook_depth"
	ReqGetMarketData    RequestType = "get_market_data"
	ReqGetAllMarketData RequestType = "get_all_market_data"
	ReqGetTrades        RequestType = "get_trades"
	ReqGetStats         RequestType = "get_stats"
)

// Request is one line of the newline-delimited JSON protocol a connection
// sends. Not every field applies to every Type; see engine.go for which
// fields each handler reads in handler.go.
type Request struct {
	Type      RequestType `json:"type"`
	Symbol    string      `json:"symbol,omitempty"`
	Side      string      `json:"side,omitempty"`
	OrderType string      `json:"order_type,omitempty"`
	Quantity  string      `json:"quantity,omitempty"`
	Price     string      `json:"price,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	OrderID   string      `json:"order_id,omitempty"`
	Depth     int         `json:"depth,omitempty"`
	Limit     int         `json:"limit,omitempty"`
}

// Response is one line of the reply stream. On success the payload fields
// that belong to Type are populated (submit_order sets Order and Trades,
// get_orderbook_depth sets Bids and Asks, the other types set one field). On
// failure Error is populated and the payload omitted, except for a Market
// submit_order whose residual was rejected after some fills: that reply
// carries Order and Trades alongside Error. The shape follows spec.md §6's
// tagged-JSON-object WebSocket envelope, reused here for TCP.
type Response struct {
	Type           RequestType      `json:"type"`
	Error          string           `json:"error,omitempty"`
	Order          *OrderView       `json:"order,omitempty"`
	Orders         []OrderView      `json:"orders,omitempty"`
	Trades         []TradeView      `json:"trades,omitempty"`
	Bids           []LevelView      `json:"bids,omitempty"`
	Asks           []LevelView      `json:"asks,omitempty"`
	MarketData     *MarketDataView  `json:"market_data,omitempty"`
	MarketDataList []MarketDataView `json:"market_data_list,omitempty"`
	Stats          *StatsView       `json:"stats,omitempty"`
}
