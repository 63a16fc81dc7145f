package matching

import (
	"testing"

	"clobengine/internal/book"
	"clobengine/internal/common"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sym() common.Symbol { return common.NewSymbol("BTC", "USD") }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func limitOrder(side common.Side, price, qty, user string) *common.Order {
	p := dec(price)
	o := common.NewOrder(sym(), side, common.Limit, dec(qty), &p, user)
	return &o
}

func marketOrder(side common.Side, qty, user string) *common.Order {
	o := common.NewOrder(sym(), side, common.Market, dec(qty), nil, user)
	return &o
}

func TestSubmit_SimpleCrossExecutesAtMakerPrice(t *testing.T) {
	ob := book.New(sym())
	maker := limitOrder(common.Sell, "100.00", "1", "maker")
	require.NoError(t, ob.Add(maker))

	taker := limitOrder(common.Buy, "102.00", "1", "taker")
	res := Submit(ob, taker)

	require.NoError(t, res.Err)
	require.Len(t, res.Trades, 1)
	require.True(t, res.Trades[0].Price.Equal(dec("100.00")))
	require.Equal(t, common.Filled, taker.Status)
	require.Equal(t, common.Filled, maker.Status)

	best, ok := ob.BestAsk()
	require.False(t, ok)
	_ = best
}

func TestSubmit_LimitResidualRestsOnBook(t *testing.T) {
	ob := book.New(sym())
	maker := limitOrder(common.Sell, "100", "2", "maker")
	require.NoError(t, ob.Add(maker))

	taker := limitOrder(common.Buy, "100", "5", "taker")
	res := Submit(ob, taker)

	require.NoError(t, res.Err)
	require.Len(t, res.Trades, 1)
	require.Equal(t, common.PartiallyFilled, taker.Status)
	require.True(t, taker.RemainingQty.Equal(dec("3")))

	bid, ok := ob.BestBid()
	require.True(t, ok)
	require.True(t, bid.Equal(dec("100")))
}

func TestSubmit_MarketResidualRejectedForInsufficientLiquidity(t *testing.T) {
	ob := book.New(sym())
	maker := limitOrder(common.Sell, "100", "1", "maker")
	require.NoError(t, ob.Add(maker))

	taker := marketOrder(common.Buy, "5", "taker")
	res := Submit(ob, taker)

	require.ErrorIs(t, res.Err, common.ErrInsufficientLiquidity)
	require.Len(t, res.Trades, 1)
	require.Equal(t, common.Rejected, taker.Status)
	require.True(t, taker.RemainingQty.Equal(dec("4")))
}

func TestSubmit_MarketOrderWithNoLiquidityIsRejectedWithoutTrades(t *testing.T) {
	ob := book.New(sym())
	taker := marketOrder(common.Buy, "1", "taker")
	res := Submit(ob, taker)

	require.ErrorIs(t, res.Err, common.ErrInsufficientLiquidity)
	require.Empty(t, res.Trades)
	require.Equal(t, common.Rejected, taker.Status)
}

func TestSubmit_SelfTradeIsAllowed(t *testing.T) {
	ob := book.New(sym())
	maker := limitOrder(common.Sell, "100", "1", "same-user")
	require.NoError(t, ob.Add(maker))

	taker := limitOrder(common.Buy, "100", "1", "same-user")
	res := Submit(ob, taker)

	require.NoError(t, res.Err)
	require.Len(t, res.Trades, 1)
	require.Equal(t, "same-user", res.Trades[0].BuyerUserID)
	require.Equal(t, "same-user", res.Trades[0].SellerUserID)
}
