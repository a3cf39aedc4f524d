package common

import "errors"

// ErrUnauthorized is returned when the caller cannot prove control of the
// account an operation acts on behalf of.
var ErrUnauthorized = errors.New("unauthorized")

// Authorizer answers whether the current caller controls the supplied
// account. The host environment decides the mechanism (transaction
// signatures, capability tokens); the engines only consume the verdict.
type Authorizer interface {
	Authorize(account [20]byte) bool
}

// AuthorizerFunc adapts a plain function to the Authorizer interface.
type AuthorizerFunc func(account [20]byte) bool

// Authorize implements the Authorizer interface.
func (f AuthorizerFunc) Authorize(account [20]byte) bool { return f(account) }

// RequireAuth is the shared guard every engine runs before mutating state on
// behalf of an account. A nil authorizer denies everything.
func RequireAuth(auth Authorizer, account [20]byte) error {
	if auth == nil || !auth.Authorize(account) {
		return ErrUnauthorized
	}
	return nil
}
