package transport

import (
	"testing"

	"clobengine/internal/engine"

	"github.com/stretchr/testify/require"
)

func TestDispatch_SubmitAndGetOrder(t *testing.T) {
	e := engine.New(engine.Config{})
	defer e.Shutdown()

	submitResp := dispatch(e, Request{
		Type: ReqSubmitOrder, Symbol: "BTC-USDT", Side: "buy",
		OrderType: "limit", Price: "50000", Quantity: "1", UserID: "alice",
	})
	require.Empty(t, submitResp.Error)
	require.NotNil(t, submitResp.Order)
	require.Equal(t, "new", submitResp.Order.Status)

	getResp := dispatch(e, Request{Type: ReqGetOrder, OrderID: submitResp.Order.ID})
	require.Empty(t, getResp.Error)
	require.Equal(t, submitResp.Order.ID, getResp.Order.ID)
}

func TestDispatch_SubmitRejectsBadQuantity(t *testing.T) {
	e := engine.New(engine.Config{})
	defer e.Shutdown()

	resp := dispatch(e, Request{
		Type: ReqSubmitOrder, Symbol: "BTC-USDT", Side: "buy",
		OrderType: "limit", Price: "50000", Quantity: "0", UserID: "alice",
	})
	require.NotEmpty(t, resp.Error)
}

func TestDispatch_CrossProducesTrade(t *testing.T) {
	e := engine.New(engine.Config{})
	defer e.Shutdown()

	sellResp := dispatch(e, Request{
		Type: ReqSubmitOrder, Symbol: "BTC-USDT", Side: "sell",
		OrderType: "limit", Price: "100", Quantity: "1", UserID: "s",
	})
	require.Empty(t, sellResp.Error)

	buyResp := dispatch(e, Request{
		Type: ReqSubmitOrder, Symbol: "BTC-USDT", Side: "buy",
		OrderType: "limit", Price: "100", Quantity: "1", UserID: "b",
	})
	require.Empty(t, buyResp.Error)
	require.Len(t, buyResp.Trades, 1)
	require.Equal(t, "100", buyResp.Trades[0].Price)
}

func TestDispatch_CancelUnknownOrderReportsError(t *testing.T) {
	e := engine.New(engine.Config{})
	defer e.Shutdown()

	resp := dispatch(e, Request{
		Type: ReqCancelOrder, OrderID: "00000000-0000-0000-0000-000000000000", UserID: "alice",
	})
	require.NotEmpty(t, resp.Error)
}

func TestDispatch_UnknownRequestType(t *testing.T) {
	e := engine.New(engine.Config{})
	defer e.Shutdown()

	resp := dispatch(e, Request{Type: "nonsense"})
	require.Equal(t, ErrInvalidMessageType.Error(), resp.Error)
}

func TestDispatch_GetStats(t *testing.T) {
	e := engine.New(engine.Config{})
	defer e.Shutdown()

	resp := dispatch(e, Request{Type: ReqGetStats})
	require.Empty(t, resp.Error)
	require.NotNil(t, resp.Stats)
}
