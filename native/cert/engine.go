package cert

import (
	"encoding/binary"
	"errors"
	"time"

	"karvachain/core/events"
	nativecommon "karvachain/native/common"
)

const moduleName = "cert"

var errNilState = errors.New("cert engine: state not configured")

var (
	recordPrefix = []byte("cert/record/")
	sequenceKey  = []byte("cert/seq")
)

func recordKey(id uint64) []byte {
	key := make([]byte, len(recordPrefix)+8)
	copy(key, recordPrefix)
	binary.BigEndian.PutUint64(key[len(recordPrefix):], id)
	return key
}

// Storage abstracts the subset of state manager functionality required by the
// certificate registry.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
}

// Engine issues, transfers, and burns carbon-offset certificates. Ids start
// at one and increase strictly; a burned id is never reused and reads exactly
// like a never-issued one.
type Engine struct {
	state   Storage
	emitter events.Emitter
	auth    nativecommon.Authorizer
	pauses  nativecommon.PauseView
	nowFn   func() int64
}

// NewEngine creates a certificate registry with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the registry.
func (e *Engine) SetState(state Storage) { e.state = state }

// SetAuthorizer configures the caller authorization oracle.
func (e *Engine) SetAuthorizer(auth nativecommon.Authorizer) { e.auth = auth }

// SetPauses configures the administrative pause view.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetEmitter configures the event emitter. Passing nil resets it to no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source, primarily used in tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// Issue mints a certificate for the owner covering carbonAmount tonnes, valid
// for validitySecs seconds from now. It returns the assigned id.
func (e *Engine) Issue(owner [20]byte, carbonAmount uint64, validitySecs int64) (uint64, error) {
	if e.state == nil {
		return 0, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	if carbonAmount == 0 {
		return 0, ErrInvalidAmount
	}
	if validitySecs <= 0 {
		return 0, ErrInvalidPeriod
	}
	if err := nativecommon.RequireAuth(e.auth, owner); err != nil {
		return 0, ErrUnauthorized
	}
	now := e.nowFn()
	id, err := e.nextID()
	if err != nil {
		return 0, err
	}
	record := &Certificate{
		ID:           id,
		Owner:        owner,
		CarbonAmount: carbonAmount,
		IssuedAt:     now,
		ExpiresAt:    now + validitySecs,
	}
	if err := e.persist(record, id); err != nil {
		return 0, err
	}
	e.emitter.Emit(issuedEvent(record))
	return id, nil
}

// IssueBatch mints unitCount one-tonne certificates without expiry in a
// single operation, each with its own sequential id. The batch is
// all-or-nothing: a failure on any unit aborts the whole issuance.
func (e *Engine) IssueBatch(owner [20]byte, unitCount uint64) ([]uint64, error) {
	if e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if unitCount == 0 {
		return nil, ErrInvalidCount
	}
	if err := nativecommon.RequireAuth(e.auth, owner); err != nil {
		return nil, ErrUnauthorized
	}
	now := e.nowFn()
	ids := make([]uint64, 0, unitCount)
	records := make([]*Certificate, 0, unitCount)
	for i := uint64(0); i < unitCount; i++ {
		id, err := e.nextID()
		if err != nil {
			return nil, err
		}
		record := &Certificate{ID: id, Owner: owner, CarbonAmount: 1, IssuedAt: now}
		if err := e.persist(record, id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		records = append(records, record)
	}
	for _, record := range records {
		e.emitter.Emit(issuedEvent(record))
	}
	return ids, nil
}

// Transfer reassigns ownership of the certificate. The caller must be
// authorized for the current owner. Expired certificates transfer normally.
func (e *Engine) Transfer(id uint64, to [20]byte) error {
	if e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	record, ok, err := e.load(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if err := nativecommon.RequireAuth(e.auth, record.Owner); err != nil {
		return ErrUnauthorized
	}
	from := record.Owner
	record.Owner = to
	if err := e.state.KVPut(recordKey(id), toStored(record)); err != nil {
		return err
	}
	e.emitter.Emit(transferredEvent(id, from, to))
	return nil
}

// Burn removes the certificate entirely. Afterwards the id is
// indistinguishable from one that was never issued.
func (e *Engine) Burn(id uint64, owner [20]byte) error {
	if e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	record, ok, err := e.load(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if record.Owner != owner {
		return ErrUnauthorized
	}
	if err := nativecommon.RequireAuth(e.auth, owner); err != nil {
		return ErrUnauthorized
	}
	if err := e.state.KVDelete(recordKey(id)); err != nil {
		return err
	}
	e.emitter.Emit(burnedEvent(id, owner))
	return nil
}

// IsValid reports whether the certificate exists and has not passed its
// expiry timestamp. Certificates without expiry are always valid. Expiry does
// not burn: the certificate keeps existing until removed explicitly.
func (e *Engine) IsValid(id uint64) (bool, error) {
	if e.state == nil {
		return false, errNilState
	}
	record, ok, err := e.load(id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNotFound
	}
	if record.ExpiresAt == 0 {
		return true, nil
	}
	return e.nowFn() <= record.ExpiresAt, nil
}

// Get returns a snapshot of the certificate. The boolean reports existence;
// a burned or never-issued id yields false without an error.
func (e *Engine) Get(id uint64) (*Certificate, bool, error) {
	if e.state == nil {
		return nil, false, errNilState
	}
	record, ok, err := e.load(id)
	if err != nil || !ok {
		return nil, false, err
	}
	return record.Copy(), true, nil
}

func (e *Engine) nextID() (uint64, error) {
	var current uint64
	if _, err := e.state.KVGet(sequenceKey, &current); err != nil {
		return 0, err
	}
	next := current + 1
	if err := e.state.KVPut(sequenceKey, next); err != nil {
		return 0, err
	}
	return next, nil
}

func (e *Engine) persist(record *Certificate, id uint64) error {
	return e.state.KVPut(recordKey(id), toStored(record))
}

func (e *Engine) load(id uint64) (*Certificate, bool, error) {
	var stored storedCertificate
	ok, err := e.state.KVGet(recordKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return fromStored(id, &stored), true, nil
}
