package transport

import (
	"errors"
	"fmt"

	"clobengine/internal/common"
	"clobengine/internal/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidMessageType = errors.New("transport: unrecognised request type")

// dispatch routes one decoded Request to the engine and builds its
// Response. It never returns an error itself — protocol and validation
// failures are encoded into the Response's Error field, matching the
// teacher's "report the error back to the client, keep the connection
// alive" policy in internal/net/server.go's sessionHandler.
func dispatch(e *engine.Engine, req Request) Response {
	switch req.Type {
	case ReqSubmitOrder:
		return handleSubmitOrder(e, req)
	case ReqCancelOrder:
		return handleCancelOrder(e, req)
	case ReqGetOrder:
		return handleGetOrder(e, req)
	case ReqGetUserOrders:
		return handleGetUserOrders(e, req)
	case ReqGetDepth:
		return handleGetDepth(e, req)
	case ReqGetMarketData:
		return handleGetMarketData(e, req)
	case ReqGetAllMarketData:
		return handleGetAllMarketData(e, req)
	case ReqGetTrades:
		return handleGetTrades(e, req)
	case ReqGetStats:
		return handleGetStats(e, req)
	default:
		return Response{Type: req.Type, Error: ErrInvalidMessageType.Error()}
	}
}

func errResponse(t RequestType, err error) Response {
	return Response{Type: t, Error: err.Error()}
}

func parseSide(s string) (common.Side, error) {
	switch s {
	case "buy":
		return common.Buy, nil
	case "sell":
		return common.Sell, nil
	default:
		return 0, fmt.Errorf("transport: unknown side %q", s)
	}
}

func parseOrderType(s string) (common.OrderType, error) {
	switch s {
	case "limit":
		return common.Limit, nil
	case "market":
		return common.Market, nil
	default:
		return 0, fmt.Errorf("transport: unknown order_type %q", s)
	}
}

func handleSubmitOrder(e *engine.Engine, req Request) Response {
	symbol, err := common.ParseSymbol(req.Symbol)
	if err != nil {
		return errResponse(req.Type, err)
	}
	side, err := parseSide(req.Side)
	if err != nil {
		return errResponse(req.Type, err)
	}
	typ, err := parseOrderType(req.OrderType)
	if err != nil {
		return errResponse(req.Type, err)
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return errResponse(req.Type, fmt.Errorf("transport: invalid quantity: %w", err))
	}

	var price *decimal.Decimal
	if req.Price != "" {
		p, err := decimal.NewFromString(req.Price)
		if err != nil {
			return errResponse(req.Type, fmt.Errorf("transport: invalid price: %w", err))
		}
		price = &p
	}

	order := common.NewOrder(symbol, side, typ, qty, price, req.UserID)
	trades, err := e.SubmitOrder(&order)
	if err != nil && len(trades) == 0 {
		return errResponse(req.Type, err)
	}

	resp := Response{Type: req.Type, Order: ptr(newOrderView(order)), Trades: newTradeViews(trades)}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func handleCancelOrder(e *engine.Engine, req Request) Response {
	id, err := uuid.Parse(req.OrderID)
	if err != nil {
		return errResponse(req.Type, fmt.Errorf("transport: invalid order_id: %w", err))
	}
	order, err := e.CancelOrder(id, req.UserID)
	if err != nil {
		return errResponse(req.Type, err)
	}
	return Response{Type: req.Type, Order: ptr(newOrderView(order))}
}

func handleGetOrder(e *engine.Engine, req Request) Response {
	id, err := uuid.Parse(req.OrderID)
	if err != nil {
		return errResponse(req.Type, fmt.Errorf("transport: invalid order_id: %w", err))
	}
	order, err := e.GetOrder(id)
	if err != nil {
		return errResponse(req.Type, err)
	}
	return Response{Type: req.Type, Order: ptr(newOrderView(order))}
}

func handleGetUserOrders(e *engine.Engine, req Request) Response {
	orders := e.GetUserOrders(req.UserID)
	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = newOrderView(o)
	}
	return Response{Type: req.Type, Orders: views}
}

func handleGetDepth(e *engine.Engine, req Request) Response {
	symbol, err := common.ParseSymbol(req.Symbol)
	if err != nil {
		return errResponse(req.Type, err)
	}
	n := req.Depth
	if n < 1 {
		n = 10
	}
	bids, asks := e.GetOrderBookDepth(symbol, n)
	return Response{Type: req.Type, Bids: newLevelViews(bids), Asks: newLevelViews(asks)}
}

func handleGetMarketData(e *engine.Engine, req Request) Response {
	symbol, err := common.ParseSymbol(req.Symbol)
	if err != nil {
		return errResponse(req.Type, err)
	}
	summary, ok := e.GetMarketData(symbol)
	if !ok {
		return errResponse(req.Type, fmt.Errorf("transport: no market data for %s", symbol))
	}
	return Response{Type: req.Type, MarketData: ptr(newMarketDataView(summary))}
}

func handleGetAllMarketData(e *engine.Engine, req Request) Response {
	return Response{Type: req.Type, MarketDataList: newMarketDataViews(e.GetAllMarketData())}
}

func handleGetTrades(e *engine.Engine, req Request) Response {
	var symbol common.Symbol
	if req.Symbol != "" {
		s, err := common.ParseSymbol(req.Symbol)
		if err != nil {
			return errResponse(req.Type, err)
		}
		symbol = s
	}
	return Response{Type: req.Type, Trades: newTradeViews(e.GetTrades(symbol, req.Limit))}
}

func handleGetStats(e *engine.Engine, req Request) Response {
	return Response{Type: req.Type, Stats: ptr(newStatsView(e.GetStats()))}
}

func ptr[T any](v T) *T { return &v }
