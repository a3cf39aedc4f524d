package dac

import (
	"encoding/binary"
	"errors"
	"strconv"
	"time"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"karvachain/core/events"
)

// TypeReadingSubmitted is emitted whenever a sequestration reading is stored.
const TypeReadingSubmitted = "dac.reading_submitted"

var (
	ErrInvalidReading = errors.New("dac: carbon reading must be positive")

	errNilState = errors.New("dac registry: state not configured")
)

var (
	totalPrefix   = []byte("dac/total/")
	counterPrefix = []byte("dac/counter/")
	readingPrefix = []byte("dac/reading/")
)

func totalKey(project [20]byte) []byte {
	return append(append([]byte{}, totalPrefix...), project[:]...)
}

func counterKey(project [20]byte) []byte {
	return append(append([]byte{}, counterPrefix...), project[:]...)
}

func readingKey(project [20]byte, index uint64) []byte {
	key := make([]byte, 0, len(readingPrefix)+len(project)+9)
	key = append(key, readingPrefix...)
	key = append(key, project[:]...)
	key = append(key, '/')
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	return append(key, idx[:]...)
}

// Storage abstracts the subset of state manager functionality required by the
// reading registry.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// Registry records direct-air-capture sequestration readings per project: an
// append-only reading log plus a running total. Reading indexes start at zero
// and increase by one per submission.
type Registry struct {
	state   Storage
	emitter events.Emitter
	nowFn   func() int64
}

// NewRegistry creates a reading registry with a no-op emitter.
func NewRegistry() *Registry {
	return &Registry{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
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

// SetNowFunc overrides the time source, primarily used in tests.
func (r *Registry) SetNowFunc(now func() int64) {
	if now == nil {
		r.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	r.nowFn = now
}

// SubmitReading appends a sequestration reading for the project and bumps the
// running total. It returns the index assigned to the reading.
func (r *Registry) SubmitReading(project [20]byte, carbonTonnes uint64) (uint64, error) {
	if r.state == nil {
		return 0, errNilState
	}
	if carbonTonnes == 0 {
		return 0, ErrInvalidReading
	}
	var counter uint64
	if _, err := r.state.KVGet(counterKey(project), &counter); err != nil {
		return 0, err
	}
	var total uint64
	if _, err := r.state.KVGet(totalKey(project), &total); err != nil {
		return 0, err
	}
	if err := r.state.KVPut(readingKey(project, counter), carbonTonnes); err != nil {
		return 0, err
	}
	if err := r.state.KVPut(counterKey(project), counter+1); err != nil {
		return 0, err
	}
	if err := r.state.KVPut(totalKey(project), total+carbonTonnes); err != nil {
		return 0, err
	}
	r.emitter.Emit(events.Event{
		Type: TypeReadingSubmitted,
		Attributes: map[string]string{
			"project": gethcommon.BytesToAddress(project[:]).Hex(),
			"index":   strconv.FormatUint(counter, 10),
			"carbon":  strconv.FormatUint(carbonTonnes, 10),
			"time":    strconv.FormatInt(r.nowFn(), 10),
		},
	})
	return counter, nil
}

// TotalSequestered returns the running carbon total for the project. Unknown
// projects total zero.
func (r *Registry) TotalSequestered(project [20]byte) (uint64, error) {
	if r.state == nil {
		return 0, errNilState
	}
	var total uint64
	if _, err := r.state.KVGet(totalKey(project), &total); err != nil {
		return 0, err
	}
	return total, nil
}

// Reading returns the reading stored at the supplied index, zero when absent.
func (r *Registry) Reading(project [20]byte, index uint64) (uint64, error) {
	if r.state == nil {
		return 0, errNilState
	}
	var reading uint64
	if _, err := r.state.KVGet(readingKey(project, index), &reading); err != nil {
		return 0, err
	}
	return reading, nil
}

// ReadingCount returns how many readings the project has submitted.
func (r *Registry) ReadingCount(project [20]byte) (uint64, error) {
	if r.state == nil {
		return 0, errNilState
	}
	var counter uint64
	if _, err := r.state.KVGet(counterKey(project), &counter); err != nil {
		return 0, err
	}
	return counter, nil
}
