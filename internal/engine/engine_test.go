package engine

import (
	"testing"

	"clobengine/internal/common"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sym() common.Symbol { return common.NewSymbol("BTC", "USDT") }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func limit(side common.Side, price, qty, user string) *common.Order {
	p := dec(price)
	o := common.NewOrder(sym(), side, common.Limit, dec(qty), &p, user)
	return &o
}

func TestEngine_SimpleCross(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	sellTrades, err := e.SubmitOrder(limit(common.Sell, "50000", "1.0", "s"))
	require.NoError(t, err)
	require.Empty(t, sellTrades)

	buy := limit(common.Buy, "50000", "1.0", "b")
	trades, err := e.SubmitOrder(buy)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.True(t, trades[0].Quantity.Equal(dec("1.0")))
	require.True(t, trades[0].Price.Equal(dec("50000")))
	require.Equal(t, "b", trades[0].BuyerUserID)
	require.Equal(t, "s", trades[0].SellerUserID)
	require.Equal(t, common.Filled, buy.Status)

	bids, asks := e.GetOrderBookDepth(sym(), 10)
	require.Empty(t, bids)
	require.Empty(t, asks)

	stats := e.GetStats()
	require.Equal(t, int64(2), stats.TotalOrders)
	require.Equal(t, int64(1), stats.TotalTrades)
	require.Equal(t, int64(0), stats.ActiveOrders)
}

func TestEngine_PartialFillKeepsMakerActiveUntilFullyFilled(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	maker := limit(common.Sell, "100", "5", "s")
	_, err := e.SubmitOrder(maker)
	require.NoError(t, err)
	require.Equal(t, int64(1), e.GetStats().ActiveOrders)

	_, err = e.SubmitOrder(limit(common.Buy, "100", "2", "b1"))
	require.NoError(t, err)
	require.Equal(t, int64(1), e.GetStats().ActiveOrders, "maker still resting with 3 remaining")

	got, err := e.GetOrder(maker.ID)
	require.NoError(t, err)
	require.Equal(t, common.PartiallyFilled, got.Status)
	require.True(t, got.RemainingQty.Equal(dec("3")))

	_, err = e.SubmitOrder(limit(common.Buy, "100", "3", "b2"))
	require.NoError(t, err)
	require.Equal(t, int64(0), e.GetStats().ActiveOrders, "maker fully filled, both sides now terminal")

	got, err = e.GetOrder(maker.ID)
	require.NoError(t, err)
	require.Equal(t, common.Filled, got.Status)
}

func TestEngine_CancelLifecycle(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	order := limit(common.Buy, "50000", "1.0", "u")
	_, err := e.SubmitOrder(order)
	require.NoError(t, err)

	cancelled, err := e.CancelOrder(order.ID, "u")
	require.NoError(t, err)
	require.Equal(t, common.Cancelled, cancelled.Status)

	resubmitted := limit(common.Buy, "50000", "1.0", "u")
	_, err = e.SubmitOrder(resubmitted)
	require.NoError(t, err)
	require.NotEqual(t, order.ID, resubmitted.ID)

	_, err = e.CancelOrder(order.ID, "u")
	require.ErrorIs(t, err, common.ErrAlreadyCancelled)

	_, err = e.CancelOrder(resubmitted.ID, "not-the-owner")
	require.ErrorIs(t, err, common.ErrUserMismatch)
}

func TestEngine_CancelUnknownOrder(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	_, err := e.CancelOrder(limit(common.Buy, "1", "1", "u").ID, "u")
	require.ErrorIs(t, err, common.ErrOrderNotFound)
}

func TestEngine_MarketDataUpdatesAfterTrade(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	_, err := e.SubmitOrder(limit(common.Sell, "100", "1", "s"))
	require.NoError(t, err)
	_, err = e.SubmitOrder(limit(common.Buy, "100", "1", "b"))
	require.NoError(t, err)

	md, ok := e.GetMarketData(sym())
	require.True(t, ok)
	require.True(t, md.LastPrice.Equal(dec("100")))

	trades := e.GetTrades(sym(), 10)
	require.Len(t, trades, 1)
}

func TestEngine_SubscribeTradesSeesSubmission(t *testing.T) {
	e := New(Config{})
	defer e.Shutdown()

	sub := e.SubscribeTrades()
	defer sub.Close()

	_, err := e.SubmitOrder(limit(common.Sell, "100", "1", "s"))
	require.NoError(t, err)
	_, err = e.SubmitOrder(limit(common.Buy, "100", "1", "b"))
	require.NoError(t, err)

	trade := <-sub.C
	require.True(t, trade.Price.Equal(dec("100")))
}

func TestEngine_TradeLogCap(t *testing.T) {
	e := New(Config{TradeLogCap: 2})
	defer e.Shutdown()

	for i := 0; i < 3; i++ {
		_, err := e.SubmitOrder(limit(common.Sell, "100", "1", "s"))
		require.NoError(t, err)
		_, err = e.SubmitOrder(limit(common.Buy, "100", "1", "b"))
		require.NoError(t, err)
	}

	trades := e.GetTrades(sym(), 0)
	require.Len(t, trades, 2)
}
