package status

import (
	"encoding/binary"
	"errors"
	"strconv"

	"karvachain/core/events"
)

// Lifecycle labels a token can carry. DefaultStatus applies to every token
// that was never tagged.
const (
	StatusOffsetReady        = "Offset-Ready"
	StatusByproductTradeable = "Byproduct-Tradeable"

	DefaultStatus = StatusOffsetReady
)

// TypeStatusUpdated is emitted whenever a token's status changes.
const TypeStatusUpdated = "status.updated"

var ErrInvalidStatus = errors.New("status: invalid status label")

var errNilState = errors.New("status registry: state not configured")

var statusPrefix = []byte("token/status/")

func statusKey(id uint64) []byte {
	key := make([]byte, len(statusPrefix)+8)
	copy(key, statusPrefix)
	binary.BigEndian.PutUint64(key[len(statusPrefix):], id)
	return key
}

// Storage abstracts the subset of state manager functionality required by the
// status registry.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// Registry tracks the lifecycle tag of individual tokens. The label set is
// closed; anything outside it is rejected.
type Registry struct {
	state   Storage
	emitter events.Emitter
}

// NewRegistry creates a status registry with a no-op emitter.
func NewRegistry() *Registry {
	return &Registry{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the registry.
func (r *Registry) SetState(state Storage) { r.state = state }

// SetEmitter configures the event emitter. Passing nil resets it to no-op.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

// SetStatus overwrites the status of the token unconditionally once the label
// passes validation.
func (r *Registry) SetStatus(id uint64, label string) error {
	if r.state == nil {
		return errNilState
	}
	if label != StatusOffsetReady && label != StatusByproductTradeable {
		return ErrInvalidStatus
	}
	if err := r.state.KVPut(statusKey(id), label); err != nil {
		return err
	}
	r.emitter.Emit(events.Event{
		Type: TypeStatusUpdated,
		Attributes: map[string]string{
			"id":     strconv.FormatUint(id, 10),
			"status": label,
		},
	})
	return nil
}

// GetStatus returns the status of the token, falling back to DefaultStatus
// when it was never set.
func (r *Registry) GetStatus(id uint64) (string, error) {
	if r.state == nil {
		return "", errNilState
	}
	var label string
	ok, err := r.state.KVGet(statusKey(id), &label)
	if err != nil {
		return "", err
	}
	if !ok {
		return DefaultStatus, nil
	}
	return label, nil
}
