package token

import "errors"

var (
	ErrUnknownToken        = errors.New("token: unknown token kind")
	ErrInvalidAmount       = errors.New("token: amount must be positive")
	ErrSameAccount         = errors.New("token: transfer to the same account")
	ErrUnauthorized        = errors.New("token: unauthorized")
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	ErrSupplyCapExceeded   = errors.New("token: supply cap exceeded")
	ErrMintTooSoon         = errors.New("token: minting interval not reached")
	ErrNotBurnable         = errors.New("token: token kind not burnable")
)
