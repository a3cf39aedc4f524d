package cert

import "errors"

var (
	ErrInvalidAmount = errors.New("cert: carbon amount must be positive")
	ErrInvalidPeriod = errors.New("cert: validity period must be positive")
	ErrInvalidCount  = errors.New("cert: unit count must be positive")
	ErrUnauthorized  = errors.New("cert: unauthorized")
	ErrNotFound      = errors.New("cert: certificate not found")
)
