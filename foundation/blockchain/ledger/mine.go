package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
)

// MineNext takes the oldest pending transfers, adds a coinbase crediting the
// reward address, mines a block linked to the head of the chain and appends
// it. The lock is not held while searching for the nonce so transfers can
// still be submitted. If mining fails or is cancelled, the chain is unchanged
// and the transfers go back to the front of the pool. If a sync replaced the
// chain in the meantime, the block is discarded with ErrStaleBlock and the
// transfers are validated again against the new chain.
func (l *Ledger) MineNext(ctx context.Context, rewardAddress database.Address) (database.Block, error) {
	if !rewardAddress.IsAddress() {
		return database.Block{}, newValidationError(ErrInvalidAddress, "reward %q", rewardAddress)
	}

	// Only one block can be mined at a time.
	l.mineMu.Lock()
	defer l.mineMu.Unlock()

	l.evHandler("ledger: MineNext: MINING: started")
	defer l.evHandler("ledger: MineNext: MINING: completed")

	// Capture what is needed for the new block and mark the transfers as
	// being mined so they are accounted for in balance checks.
	l.mu.Lock()
	trans := l.mempool.Take(max(int(l.genesis.TransPerBlock)-1, 0))
	l.inflight = trans
	head := l.chain[len(l.chain)-1]
	diff := l.difficulty
	l.mu.Unlock()

	txs := make([]database.Tx, 0, len(trans)+1)
	for _, tx := range trans {
		txs = append(txs, tx)
	}
	txs = append(txs, database.NewCoinbase(rewardAddress, l.genesis.MiningReward))

	block := database.NewBlock(head.Index+1, time.Now().UnixMilli(), txs, head.Hash, 0)

	l.evHandler("ledger: MineNext: MINING: blk[%d]: txs[%d]: difficulty[%d]", block.Index, len(txs), diff)

	err := block.Mine(ctx, diff, l.powCfg, l.evHandler)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.inflight = nil

	// The chain could have been replaced by a sync while mining.
	stale := l.chain[len(l.chain)-1].Hash != head.Hash
	if err == nil && stale {
		err = ErrStaleBlock
	}

	if err != nil {
		if stale {
			l.requeue(trans)
		} else {
			l.mempool.PushFront(trans)
		}
		return database.Block{}, fmt.Errorf("mining block %d: %w", block.Index, err)
	}

	l.chain = append(l.chain, block)

	prev := l.difficulty
	l.difficulty = l.ctrl.Next(l.difficulty, minedTimestamps(l.chain))
	if l.difficulty != prev {
		l.evHandler("ledger: MineNext: RETARGET: difficulty[%d] -> difficulty[%d]", prev, l.difficulty)
	}

	l.evHandler("ledger: MineNext: MINING: appended: blk[%d]: hash[%s]", block.Index, block.Hash)

	return block, nil
}
