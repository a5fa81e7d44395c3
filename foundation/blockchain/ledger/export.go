package ledger

import (
	"fmt"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
)

// ChainData is the serialized form of the ledger used for persistence and
// for syncing with other nodes.
type ChainData struct {
	Chain               []database.BlockData `json:"chain"`
	Difficulty          uint                 `json:"difficulty"`
	PendingTransactions []database.TxData    `json:"pendingTransactions"`
	MiningReward        uint64               `json:"miningReward"`
}

// Export returns the serialized form of the ledger. Transfers that are
// currently being mined are included with the pending transfers.
func (l *Ledger) Export() ChainData {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := make([]database.BlockData, len(l.chain))
	for i, b := range l.chain {
		chain[i] = database.NewBlockData(b)
	}

	pending := make([]database.TxData, 0, len(l.inflight)+l.mempool.Count())
	for _, tx := range l.inflight {
		pending = append(pending, tx.Data())
	}
	for _, tx := range l.mempool.Copy() {
		pending = append(pending, tx.Data())
	}

	return ChainData{
		Chain:               chain,
		Difficulty:          l.difficulty,
		PendingTransactions: pending,
		MiningReward:        l.genesis.MiningReward,
	}
}

// Import replaces the chain and pending transfers with the supplied data.
// The candidate chain is fully validated before anything is replaced; on
// failure an ImportError is returned and the ledger is untouched. Pending
// transfers that are not valid against the new chain are dropped.
func (l *Ledger) Import(data ChainData) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	chain, diff, err := l.stage(data)
	if err != nil {
		return err
	}

	l.chain = chain
	l.difficulty = diff

	l.mempool.Truncate()
	trans := make([]database.Transfer, 0, len(data.PendingTransactions))
	for _, d := range data.PendingTransactions {
		tx, ok := database.ToTx(d).(database.Transfer)
		if !ok {
			l.evHandler("ledger: Import: DROPPED: pending coinbase to %s", d.ToAddress)
			continue
		}
		trans = append(trans, tx)
	}
	l.requeue(trans)

	l.evHandler("ledger: Import: blocks[%d]: pending[%d]: difficulty[%d]", len(chain), l.mempool.Count(), diff)

	return nil
}

// Sync replaces the chain with the supplied chain only when it is valid and
// strictly longer than the local chain. Local pending transfers are kept
// when they are still valid against the new chain.
func (l *Ledger) Sync(data ChainData) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(data.Chain) <= len(l.chain) {
		return &ImportError{Err: fmt.Errorf("got %d blocks, have %d: %w", len(data.Chain), len(l.chain), ErrChainNotLonger)}
	}

	chain, diff, err := l.stage(data)
	if err != nil {
		return err
	}

	l.chain = chain
	l.difficulty = diff
	l.requeue(nil)

	l.evHandler("ledger: Sync: blocks[%d]: pending[%d]: difficulty[%d]", len(chain), l.mempool.Count(), diff)

	return nil
}

// stage converts and validates the supplied data without touching the
// ledger. The caller must hold the lock.
func (l *Ledger) stage(data ChainData) ([]database.Block, uint, error) {
	if len(data.Chain) == 0 {
		return nil, 0, &ImportError{Err: ErrEmptyChain}
	}

	if data.MiningReward != l.genesis.MiningReward {
		return nil, 0, &ImportError{Err: fmt.Errorf("got %d, exp %d: %w", data.MiningReward, l.genesis.MiningReward, ErrRewardMismatch)}
	}

	chain := make([]database.Block, len(data.Chain))
	for i, bd := range data.Chain {
		chain[i] = database.ToBlock(bd)
	}

	diff, err := l.validate(chain)
	if err != nil {
		return nil, 0, &ImportError{Err: err}
	}

	if data.Difficulty != diff {
		return nil, 0, &ImportError{Err: fmt.Errorf("got %d, exp %d: %w", data.Difficulty, diff, ErrDifficultyMismatch)}
	}

	return chain, diff, nil
}
