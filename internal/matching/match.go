// Package matching implements the execution-price rule and residual
// handling layered on top of a single order book's structural Match loop
// (spec.md §4.2 `scan_matches`, §4.4 maker-price rule, Open Question 1/2).
package matching

import (
	"clobengine/internal/book"
	"clobengine/internal/common"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Result is the outcome of submitting one incoming order against one book.
type Result struct {
	Order  *common.Order
	Trades []common.Trade
	// Final is a race-free copy of Order's state as of the moment this
	// submission finished touching it — captured while the book's write
	// lock was held, or while Order was not yet reachable by any other
	// goroutine. Callers that need to publish or index Order's state
	// (internal/engine's orderIndex) must use this copy rather than
	// dereferencing Order itself, since the book may mutate that pointer
	// again the moment it is resting and another submission matches
	// against it.
	Final common.Order
	// MakerUpdates holds a race-free copy of every resting order this
	// submission filled (fully or partially), in fill order, captured the
	// same way as Final — for index reconciliation and active-order
	// accounting for makers, which this submission's return value would
	// otherwise never surface.
	MakerUpdates []common.Order
	// Err is non-nil only for the Open Question 2 liquidity-shortfall case:
	// a Market order whose residual could not be filled. Trades already
	// executed are still valid and included above.
	Err error
}

// Submit matches incoming against ob using price-time priority and the
// maker-price execution rule (every fill executes at the resting order's
// price, never the taker's — Open Question 1), then disposes of any
// residual quantity:
//
//   - Limit residual rests on the book (status New or PartiallyFilled).
//   - Market residual never rests: it is marked Rejected and
//     common.ErrInsufficientLiquidity is returned alongside whatever
//     trades did execute (Open Question 2).
//
// incoming must already have passed Order.Validate.
func Submit(ob *book.OrderBook, incoming *common.Order) Result {
	var makerUpdates []common.Order
	trades, final := ob.Match(
		incoming,
		func(resting *common.Order, seq uint64, qty decimal.Decimal) common.Trade {
			return common.NewTrade(
				incoming.Symbol,
				incoming.Side,
				incoming.ID,
				resting.ID,
				incoming.UserID,
				resting.UserID,
				qty,
				*resting.Price, // maker-price rule: execution always prices at the resting order
			)
		},
		func(resting common.Order) {
			makerUpdates = append(makerUpdates, resting)
		},
	)

	result := Result{Order: incoming, Trades: trades, Final: final, MakerUpdates: makerUpdates}

	switch {
	case incoming.RemainingQty.IsZero():
		// Fully filled; nothing to rest or reject. final already reflects
		// this terminal state.

	case incoming.Type == common.Market:
		incoming.Status = common.Rejected
		result.Final = *incoming
		result.Err = common.ErrInsufficientLiquidity
		log.Warn().
			Str("symbol", incoming.Symbol.String()).
			Str("order_id", incoming.ID.String()).
			Str("unfilled", incoming.RemainingQty.String()).
			Msg("market order residual rejected for insufficient liquidity")

	default: // Limit residual rests on the book.
		if err := ob.Add(incoming); err != nil {
			// incoming already passed Validate and was matched against this
			// same book, so re-insertion cannot fail. A failure here means
			// book state has been corrupted between Match and Add.
			panic("matching: residual limit order could not be re-added to its own book: " + err.Error())
		}
		// Add only links incoming into the book's structures; it does not
		// touch Status/RemainingQty/Price, so final (captured inside Match,
		// before incoming became reachable by any other goroutine) already
		// reflects the order's resting state correctly.
	}

	return result
}
