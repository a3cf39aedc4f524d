package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"

	"karvachain/storage"
)

// Manager exposes the typed key-value surface the native engines operate
// against. Writes are staged in an overlay and only reach the backing
// database on Commit, which flushes everything in a single batch. A failed
// operation calls Discard and leaves the persisted state untouched, so every
// compound operation (batch issuance, order settlement, gated mints) is
// all-or-nothing.
type Manager struct {
	mu     sync.Mutex
	db     storage.Database
	staged map[string][]byte
	order  []string
}

// NewManager constructs a manager bound to the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{
		db:     db,
		staged: make(map[string][]byte),
	}
}

// KVPut stages the provided value under the supplied key using RLP encoding.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if m == nil {
		return errors.New("state manager unavailable")
	}
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stage(key, encoded)
	return nil
}

// KVGet retrieves the value stored under the supplied key and decodes it into
// the provided destination. Staged writes shadow the backing database so an
// operation observes its own pending effects. The boolean return reports
// whether the key existed.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if m == nil {
		return false, errors.New("state manager unavailable")
	}
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	m.mu.Lock()
	data, staged := m.staged[string(key)]
	m.mu.Unlock()
	if staged {
		if data == nil {
			return false, nil
		}
	} else {
		stored, err := m.db.Get(key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		data = stored
	}
	if len(data) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// KVDelete stages the removal of the supplied key.
func (m *Manager) KVDelete(key []byte) error {
	if m == nil {
		return errors.New("state manager unavailable")
	}
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stage(key, nil)
	return nil
}

// Commit flushes every staged write to the backing database in one batch and
// clears the overlay.
func (m *Manager) Commit() error {
	if m == nil {
		return errors.New("state manager unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.order) == 0 {
		return nil
	}
	entries := make([]storage.BatchEntry, 0, len(m.order))
	for _, key := range m.order {
		entries = append(entries, storage.BatchEntry{Key: []byte(key), Value: m.staged[key]})
	}
	if err := m.db.WriteBatch(entries); err != nil {
		return err
	}
	m.reset()
	return nil
}

// Discard drops all staged writes without touching the database.
func (m *Manager) Discard() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *Manager) stage(key []byte, value []byte) {
	k := string(key)
	if _, exists := m.staged[k]; !exists {
		m.order = append(m.order, k)
	}
	m.staged[k] = value
}

func (m *Manager) reset() {
	m.staged = make(map[string][]byte)
	m.order = m.order[:0]
}
