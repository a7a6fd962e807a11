package matchbook

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a book or a manager matches one of these with errors.Is.
var (
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrAlreadyExists = errors.New("orderbook already exists")
	ErrNotFound      = errors.New("order not found")
	ErrInvalidOrder  = errors.New("invalid order")
	ErrInvalidAmend  = errors.New("invalid amend")
)

var (
	ErrInvalidQty         = fmt.Errorf("%w: quantity has to be positive", ErrInvalidOrder)
	ErrInvalidMarketPrice = fmt.Errorf("%w: price has to be zero for market orders", ErrInvalidOrder)
	ErrInvalidLimitPrice  = fmt.Errorf("%w: price has to be positive for limit orders", ErrInvalidOrder)
	ErrInvalidOrderType   = fmt.Errorf("%w: unsupported order type", ErrInvalidOrder)
	ErrInvalidSide        = fmt.Errorf("%w: unsupported order side", ErrInvalidOrder)
	ErrSymbolMismatch     = fmt.Errorf("%w: order symbol does not match the book", ErrInvalidOrder)
	ErrDuplicateOrder     = fmt.Errorf("%w: order with this ID is already resting", ErrInvalidOrder)
	ErrLevelOverflow      = fmt.Errorf("%w: price level quantity would overflow", ErrInvalidOrder)

	ErrEmptyAmend        = fmt.Errorf("%w: neither price nor quantity provided", ErrInvalidAmend)
	ErrInvalidAmendQty   = fmt.Errorf("%w: quantity has to be positive and fit the order", ErrInvalidAmend)
	ErrInvalidAmendPrice = fmt.Errorf("%w: price has to be positive", ErrInvalidAmend)

	ErrAmendLevelOverflow = fmt.Errorf("%w: price level quantity would overflow", ErrInvalidAmend)
)

// reason for a market order that found an empty opposite side
const reasonNoLiquidity = "no liquidity"
