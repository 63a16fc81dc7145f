package common

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trade is an immutable execution record. Quantity and Price are always
// positive; BuyOrderID and SellOrderID are always distinct (spec.md §8 P5).
type Trade struct {
	ID          uuid.UUID
	Symbol      Symbol
	BuyOrderID  uuid.UUID
	SellOrderID uuid.UUID
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Timestamp   time.Time
	BuyerUserID  string
	SellerUserID string
}

// NewTrade stamps a fresh ID and timestamp onto an execution between a
// resting maker order and an incoming taker order. takerSide is the taker's side:
// it determines which of taker/maker is recorded as buyer and seller.
func NewTrade(symbol Symbol, takerSide Side, takerID, makerID uuid.UUID, takerUser, makerUser string, qty, price decimal.Decimal) Trade {
	t := Trade{
		ID:        uuid.New(),
		Symbol:    symbol,
		Quantity:  qty,
		Price:     price,
		Timestamp: time.Now(),
	}
	if takerSide == Buy {
		t.BuyOrderID, t.SellOrderID = takerID, makerID
		t.BuyerUserID, t.SellerUserID = takerUser, makerUser
	} else {
		t.BuyOrderID, t.SellOrderID = makerID, takerID
		t.BuyerUserID, t.SellerUserID = makerUser, takerUser
	}
	return t
}
