package storage

import (
	"encoding/json"
	"sync"

	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
)

// Memory keeps the snapshot in memory. It is used by tests and by nodes
// that don't need to survive a restart. The snapshot is held encoded so
// callers never share slices with it.
type Memory struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemory constructs an empty in memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save replaces the snapshot.
func (m *Memory) Save(data ledger.ChainData) error {
	content, err := json.Marshal(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = content

	return nil
}

// Load returns the snapshot or ErrNotFound when nothing has been saved.
func (m *Memory) Load() (ledger.ChainData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.data == nil {
		return ledger.ChainData{}, ErrNotFound
	}

	var data ledger.ChainData
	if err := json.Unmarshal(m.data, &data); err != nil {
		return ledger.ChainData{}, err
	}

	return data, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}
