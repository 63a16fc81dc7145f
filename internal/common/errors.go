package common

import "errors"

// Validation errors: rejected inputs, no state change (spec.md §7).
var (
	ErrSymbolMismatch       = errors.New("order symbol does not match book symbol")
	ErrNonPositiveQuantity  = errors.New("quantity must be positive")
	ErrLimitWithoutPrice    = errors.New("limit order requires a positive price")
	ErrMarketWithPrice      = errors.New("market order must not carry a limit price")
	ErrEmptyUser            = errors.New("user id must not be empty")
	ErrUnsupportedOrderType = errors.New("order type is reserved and not active in this core")
)

// Not-found / authorisation / state errors (spec.md §7).
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserMismatch     = errors.New("requesting user does not own this order")
	ErrAlreadyFilled    = errors.New("order is already filled")
	ErrAlreadyCancelled = errors.New("order is already cancelled")
	ErrAlreadyTerminal  = errors.New("order is already in a terminal state")
)

// ErrInsufficientLiquidity is returned for a Market order residual that
// cannot be filled against available book depth (spec.md Open Question 2).
var ErrInsufficientLiquidity = errors.New("insufficient liquidity to fill market order")
