package marketdata

import (
	"testing"

	"clobengine/internal/common"

	"github.com/google/uuid"
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

func trade(price, qty string) common.Trade {
	return common.Trade{
		ID:       uuid.New(),
		Symbol:   sym(),
		Price:    dec(price),
		Quantity: dec(qty),
	}
}

func TestTracker_EmptySymbolNotFound(t *testing.T) {
	tr := NewTracker()
	_, ok := tr.Summary(sym())
	require.False(t, ok)
}

func TestTracker_SingleTradeSummary(t *testing.T) {
	tr := NewTracker()
	tr.Record(trade("100", "2"))

	s, ok := tr.Summary(sym())
	require.True(t, ok)
	require.True(t, s.LastPrice.Equal(dec("100")))
	require.True(t, s.High.Equal(dec("100")))
	require.True(t, s.Low.Equal(dec("100")))
	require.True(t, s.Volume.Equal(dec("200")))
	require.True(t, s.ChangePct.IsZero())
}

func TestTracker_HighLowVolumeAndChange(t *testing.T) {
	tr := NewTracker()
	tr.Record(trade("100", "1"))
	tr.Record(trade("110", "2"))
	tr.Record(trade("90", "1"))

	s, ok := tr.Summary(sym())
	require.True(t, ok)
	require.True(t, s.LastPrice.Equal(dec("90")))
	require.True(t, s.High.Equal(dec("110")))
	require.True(t, s.Low.Equal(dec("90")))
	require.True(t, s.Volume.Equal(dec("100").Add(dec("220")).Add(dec("90"))))
	require.True(t, s.ChangePct.Equal(dec("-10")))
}

func TestTracker_WindowEvictsOldestTrade(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < Window; i++ {
		tr.Record(trade("100", "1"))
	}
	tr.Record(trade("50", "1"))

	s, ok := tr.Summary(sym())
	require.True(t, ok)
	require.Equal(t, Window, s.TradeCount)
	require.True(t, s.Low.Equal(dec("50")))
	require.True(t, s.LastPrice.Equal(dec("50")))
}

func TestTracker_AllReturnsEverySymbol(t *testing.T) {
	tr := NewTracker()
	tr.Record(trade("1", "1"))

	other := common.Trade{ID: uuid.New(), Symbol: common.NewSymbol("ETH", "USD"), Price: dec("2"), Quantity: dec("1")}
	tr.Record(other)

	all := tr.All()
	require.Len(t, all, 2)
}
