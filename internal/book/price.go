// Package book implements the per-symbol price-time-priority order book:
// two ordered price-level maps (bid side descending, ask side ascending)
// plus an order-location index, per spec.md §3/§4.1/§4.2.
package book

import "github.com/shopspring/decimal"

// Scale is the fixed-point scale used for price keys inside the book.
// Spec.md §4.2 recommends 10^6 (six decimal places) so price comparisons
// are exact integer comparisons instead of float equality.
const Scale int64 = 1_000_000

// ScaledPrice is a price represented as a fixed-scale integer, giving exact
// equality and a total order inside the book. It is scaled on the way in
// (Add) and de-scaled on the way out (Depth, BestBid/BestAsk).
type ScaledPrice int64

// toScaled converts an external decimal price into the book's internal
// fixed-scale integer form.
func toScaled(p decimal.Decimal) ScaledPrice {
	return ScaledPrice(p.Mul(decimal.NewFromInt(Scale)).Round(0).IntPart())
}

// Decimal converts a scaled price back to its external decimal form.
func (p ScaledPrice) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(p)).Div(decimal.NewFromInt(Scale))
}
