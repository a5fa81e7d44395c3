// Package ledger implements the chain of blocks, the pool of pending
// transfers, balance computation by replay and full chain validation.
package ledger

import (
	"sync"
	"time"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/difficulty"
	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"github.com/conscoin/blockchain/foundation/blockchain/mempool"
	"github.com/conscoin/blockchain/foundation/blockchain/pow"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct a ledger.
type Config struct {
	Genesis   genesis.Genesis
	POW       pow.Config
	EvHandler EventHandler
}

// Ledger manages the chain of blocks and the pending transfers. All methods
// are safe for concurrent use. Mutations are serialized by a mutex and only
// one block is mined at a time.
type Ledger struct {
	mu     sync.RWMutex
	mineMu sync.Mutex

	genesis   genesis.Genesis
	ctrl      difficulty.Controller
	powCfg    pow.Config
	evHandler EventHandler

	chain      []database.Block
	difficulty uint
	mempool    *mempool.Mempool
	inflight   []database.Transfer
}

// New constructs a ledger holding only the genesis block.
func New(cfg Config) *Ledger {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	l := Ledger{
		genesis: cfg.Genesis,
		ctrl: difficulty.Controller{
			Window:   cfg.Genesis.RetargetWindow,
			Target:   time.Duration(cfg.Genesis.TargetBlockTime),
			Interval: cfg.Genesis.RetargetInterval,
		},
		powCfg:     cfg.POW,
		evHandler:  ev,
		difficulty: cfg.Genesis.Difficulty,
		mempool:    mempool.New(),
	}
	l.chain = []database.Block{l.genesisBlock()}

	return &l
}

// genesisBlock constructs the fixed first block of the chain.
func (l *Ledger) genesisBlock() database.Block {
	return database.NewBlock(0, l.genesis.Date.UnixMilli(), []database.Tx{}, database.GenesisPrevHash, 0)
}

// =============================================================================

// Genesis returns a copy of the genesis settings.
func (l *Ledger) Genesis() genesis.Genesis {
	return l.genesis
}

// Difficulty returns the difficulty the next block will be mined with.
func (l *Ledger) Difficulty() uint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.difficulty
}

// LatestBlock returns the head of the chain.
func (l *Ledger) LatestBlock() database.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.chain[len(l.chain)-1]
}

// Height returns the number of blocks in the chain, genesis included.
func (l *Ledger) Height() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.chain)
}

// Blocks returns a copy of the chain.
func (l *Ledger) Blocks() []database.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	blocks := make([]database.Block, len(l.chain))
	copy(blocks, l.chain)

	return blocks
}

// BlockByIndex returns the block at the specified index.
func (l *Ledger) BlockByIndex(index uint64) (database.Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index >= uint64(len(l.chain)) {
		return database.Block{}, ErrBlockNotFound
	}

	return l.chain[index], nil
}

// Pending returns a copy of the transfers waiting to be mined, oldest first.
func (l *Ledger) Pending() []database.Transfer {
	return l.mempool.Copy()
}

// minedTimestamps returns the timestamps of every block after genesis.
func minedTimestamps(chain []database.Block) []int64 {
	ts := make([]int64, 0, len(chain))
	for _, b := range chain[1:] {
		ts = append(ts, b.TimeStamp)
	}
	return ts
}
