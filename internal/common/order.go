package common

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// OrderType distinguishes Limit and Market orders. StopLimit and StopMarket
// are reserved for a future activation layer (spec.md §3, Open Question 3)
// and are rejected by Validate until one exists.
type OrderType int

const (
	Limit OrderType = iota
	Market
	StopLimit
	StopMarket
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "limit"
	case Market:
		return "market"
	case StopLimit:
		return "stop_limit"
	case StopMarket:
		return "stop_market"
	default:
		return "unknown"
	}
}

// active reports whether this order type is processed by the core today.
func (t OrderType) active() bool {
	return t == Limit || t == Market
}

// OrderStatus is the lifecycle state of an Order. Transitions:
// New -> PartiallyFilled -> Filled; New/PartiallyFilled -> Cancelled;
// New -> Rejected. Filled, Cancelled and Rejected are terminal.
type OrderStatus int

const (
	New OrderStatus = iota
	PartiallyFilled
	Filled
	Cancelled
	Rejected
)

func (s OrderStatus) String() string {
	switch s {
	case New:
		return "new"
	case PartiallyFilled:
		return "partially_filled"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further mutation of this order is possible.
func (s OrderStatus) Terminal() bool {
	return s == Filled || s == Cancelled || s == Rejected
}

// Active reports whether the order is live (counts toward active-order
// statistics, per spec.md §3/§8 P4).
func (s OrderStatus) Active() bool {
	return s == New || s == PartiallyFilled
}

// Order is a single resting or incoming order. Price is nil for Market
// orders and required, strictly positive, for Limit orders.
//
// Invariant: OrigQty == FilledQty + RemainingQty at all times.
// Invariant: RemainingQty >= 0; once it reaches 0, Status is Filled or
// Cancelled.
type Order struct {
	ID     uuid.UUID
	Symbol Symbol
	Side   Side
	Type   OrderType
	Price  *decimal.Decimal

	OrigQty   decimal.Decimal
	FilledQty decimal.Decimal
	// RemainingQty is kept alongside FilledQty (rather than derived) so a
	// book entry can be mutated in place without recomputing it from OrigQty
	// on every partial fill.
	RemainingQty decimal.Decimal

	Status      OrderStatus
	SubmittedAt time.Time
	UserID      string
}

// NewOrder builds an Order in status New with RemainingQty == OrigQty.
// price is nil for Market orders.
func NewOrder(symbol Symbol, side Side, typ OrderType, qty decimal.Decimal, price *decimal.Decimal, userID string) Order {
	return Order{
		ID:           uuid.New(),
		Symbol:       symbol,
		Side:         side,
		Type:         typ,
		Price:        price,
		OrigQty:      qty,
		RemainingQty: qty,
		Status:       New,
		SubmittedAt:  time.Now(),
		UserID:       userID,
	}
}

// Validate checks the submission-time invariants from spec.md §3/§7. It does
// not mutate the order.
func (o *Order) Validate() error {
	if !o.Type.active() {
		return ErrUnsupportedOrderType
	}
	if !o.Symbol.Valid() {
		return ErrInvalidSymbol
	}
	if o.UserID == "" {
		return ErrEmptyUser
	}
	if o.OrigQty.Sign() <= 0 {
		return ErrNonPositiveQuantity
	}
	switch o.Type {
	case Limit:
		if o.Price == nil || o.Price.Sign() <= 0 {
			return ErrLimitWithoutPrice
		}
	case Market:
		if o.Price != nil {
			return ErrMarketWithPrice
		}
	}
	return nil
}

// ApplyFill decrements RemainingQty by qty, increments FilledQty, and moves
// Status to PartiallyFilled or Filled accordingly. It never moves an order
// out of a terminal state, and panics on overfill: that is an internal
// invariant violation (spec.md §7), not a recoverable error.
func (o *Order) ApplyFill(qty decimal.Decimal) {
	if qty.GreaterThan(o.RemainingQty) {
		panic("common: fill quantity exceeds remaining quantity")
	}
	o.FilledQty = o.FilledQty.Add(qty)
	o.RemainingQty = o.RemainingQty.Sub(qty)
	switch {
	case o.Status.Terminal():
		// A terminal status is final; only the quantities are reconciled.
	case o.RemainingQty.IsZero():
		o.Status = Filled
	default:
		o.Status = PartiallyFilled
	}
}
