// Package state is the core API for the node. It owns the ledger, persists
// a snapshot of it after every change and coordinates with the worker that
// mines blocks in the background.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
	"github.com/conscoin/blockchain/foundation/blockchain/pow"
	"github.com/conscoin/blockchain/foundation/blockchain/storage"
)

// EventHandler defines a function that is called when events
// occur in the processing of the node.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining blocks in the background.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// Storage interface represents the behavior required to keep a snapshot of
// the ledger between restarts.
type Storage interface {
	Load() (ledger.ChainData, error)
	Save(data ledger.ChainData) error
	Close() error
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	MinerAddress database.Address
	Storage      Storage
	Genesis      genesis.Genesis
	POW          pow.Config
	AutoMine     bool
	EvHandler    EventHandler
}

// State manages the ledger and its snapshot.
type State struct {
	minerAddress database.Address
	autoMine     bool
	evHandler    EventHandler

	genesis genesis.Genesis
	storage Storage
	ledger  *ledger.Ledger
	mu      sync.Mutex

	Worker Worker
}

// New constructs the node state. If a snapshot exists it is validated and
// restored, otherwise the node starts with only the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if !cfg.MinerAddress.IsAddress() {
		return nil, fmt.Errorf("miner address %q: %w", cfg.MinerAddress, database.ErrInvalidAddress)
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	ldgr := ledger.New(ledger.Config{
		Genesis:   cfg.Genesis,
		POW:       cfg.POW,
		EvHandler: ledger.EventHandler(ev),
	})

	data, err := cfg.Storage.Load()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		ev("state: New: no snapshot: starting from genesis")

	case err != nil:
		return nil, fmt.Errorf("loading snapshot: %w", err)

	default:
		if err := ldgr.Import(data); err != nil {
			return nil, fmt.Errorf("restoring snapshot: %w", err)
		}
		ev("state: New: snapshot restored: blocks[%d]", ldgr.Height())
	}

	state := State{
		minerAddress: cfg.MinerAddress,
		autoMine:     cfg.AutoMine,
		evHandler:    ev,

		genesis: cfg.Genesis,
		storage: cfg.Storage,
		ledger:  ldgr,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	// Make sure the last changes are on disk.
	if err := s.persist(); err != nil {
		s.storage.Close()
		return err
	}

	return s.storage.Close()
}

// =============================================================================

// persist saves the ledger export. Saves are serialized so an older export
// never overwrites a newer one.
func (s *State) persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(s.ledger.Export()); err != nil {
		s.evHandler("state: persist: ERROR: %s", err)
		return fmt.Errorf("persisting snapshot: %w", err)
	}

	return nil
}
