package validator

import (
	"errors"
	"strconv"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"karvachain/core/events"
	nativecommon "karvachain/native/common"
)

// Event types emitted by the validator registry.
const (
	TypeValidatorAdded   = "validator.added"
	TypeValidatorRemoved = "validator.removed"
	TypePowerDelegated   = "validator.power_delegated"
	TypeReadingValidated = "validator.reading_validated"
)

var (
	ErrUnauthorized = errors.New("validator: unauthorized")

	errNilState = errors.New("validator registry: state not configured")
)

var (
	memberPrefix   = []byte("validator/member/")
	delegatePrefix = []byte("validator/delegate/")
)

func memberKey(addr [20]byte) []byte {
	return append(append([]byte{}, memberPrefix...), addr[:]...)
}

func delegateKey(addr [20]byte) []byte {
	return append(append([]byte{}, delegatePrefix...), addr[:]...)
}

// Storage abstracts the subset of state manager functionality required by the
// validator registry.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
}

// Registry tracks the validator set that signs off on sequestration readings,
// plus voluntary power delegation between parties.
type Registry struct {
	state   Storage
	emitter events.Emitter
	auth    nativecommon.Authorizer
}

// NewRegistry creates a validator registry with a no-op emitter.
func NewRegistry() *Registry {
	return &Registry{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the registry.
func (r *Registry) SetState(state Storage) { r.state = state }

// SetAuthorizer configures the caller authorization oracle.
func (r *Registry) SetAuthorizer(auth nativecommon.Authorizer) { r.auth = auth }

// SetEmitter configures the event emitter. Passing nil resets it to no-op.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

// Add registers the account as a validator.
func (r *Registry) Add(validator [20]byte) error {
	if r.state == nil {
		return errNilState
	}
	if err := nativecommon.RequireAuth(r.auth, validator); err != nil {
		return ErrUnauthorized
	}
	if err := r.state.KVPut(memberKey(validator), true); err != nil {
		return err
	}
	r.emitter.Emit(events.Event{
		Type:       TypeValidatorAdded,
		Attributes: map[string]string{"validator": gethcommon.BytesToAddress(validator[:]).Hex()},
	})
	return nil
}

// Remove deregisters the validator.
func (r *Registry) Remove(validator [20]byte) error {
	if r.state == nil {
		return errNilState
	}
	if err := nativecommon.RequireAuth(r.auth, validator); err != nil {
		return ErrUnauthorized
	}
	if err := r.state.KVDelete(memberKey(validator)); err != nil {
		return err
	}
	r.emitter.Emit(events.Event{
		Type:       TypeValidatorRemoved,
		Attributes: map[string]string{"validator": gethcommon.BytesToAddress(validator[:]).Hex()},
	})
	return nil
}

// Delegate records the delegator handing its validation power to the
// delegatee, overwriting any previous delegation.
func (r *Registry) Delegate(delegator, delegatee [20]byte) error {
	if r.state == nil {
		return errNilState
	}
	if err := nativecommon.RequireAuth(r.auth, delegator); err != nil {
		return ErrUnauthorized
	}
	if err := r.state.KVPut(delegateKey(delegator), delegatee); err != nil {
		return err
	}
	r.emitter.Emit(events.Event{
		Type: TypePowerDelegated,
		Attributes: map[string]string{
			"delegator": gethcommon.BytesToAddress(delegator[:]).Hex(),
			"delegatee": gethcommon.BytesToAddress(delegatee[:]).Hex(),
		},
	})
	return nil
}

// ValidateReading signs off on a project reading. Non-validators are reported
// with a false verdict rather than an error.
func (r *Registry) ValidateReading(validator, project [20]byte, readingIndex uint64) (bool, error) {
	if r.state == nil {
		return false, errNilState
	}
	if err := nativecommon.RequireAuth(r.auth, validator); err != nil {
		return false, ErrUnauthorized
	}
	isValidator, err := r.IsValidator(validator)
	if err != nil {
		return false, err
	}
	if !isValidator {
		return false, nil
	}
	r.emitter.Emit(events.Event{
		Type: TypeReadingValidated,
		Attributes: map[string]string{
			"validator": gethcommon.BytesToAddress(validator[:]).Hex(),
			"project":   gethcommon.BytesToAddress(project[:]).Hex(),
			"reading":   strconv.FormatUint(readingIndex, 10),
		},
	})
	return true, nil
}

// IsValidator reports whether the account is a registered validator.
func (r *Registry) IsValidator(addr [20]byte) (bool, error) {
	if r.state == nil {
		return false, errNilState
	}
	var member bool
	ok, err := r.state.KVGet(memberKey(addr), &member)
	if err != nil {
		return false, err
	}
	return ok && member, nil
}

// Delegatee returns who the account delegated its power to, if anyone.
func (r *Registry) Delegatee(addr [20]byte) ([20]byte, bool, error) {
	var delegatee [20]byte
	if r.state == nil {
		return delegatee, false, errNilState
	}
	ok, err := r.state.KVGet(delegateKey(addr), &delegatee)
	if err != nil {
		return [20]byte{}, false, err
	}
	return delegatee, ok, nil
}
