package market

import "errors"

var (
	ErrInvalidQuantity      = errors.New("market: quantity must be positive")
	ErrInvalidPrice         = errors.New("market: price must be positive")
	ErrUnauthorized         = errors.New("market: unauthorized")
	ErrNotFound             = errors.New("market: order not found")
	ErrSelfTrade            = errors.New("market: cannot fill own order")
	ErrInsufficientQuantity = errors.New("market: insufficient quantity in order")
)
