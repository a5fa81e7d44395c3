package ledger

import (
	"errors"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
)

// IsChainValid walks the chain and reports whether every block passes
// validation. The reason for a failure is sent to the event handler; use
// ValidateChain to receive it as an error.
func (l *Ledger) IsChainValid() bool {
	if err := l.ValidateChain(); err != nil {
		l.evHandler("ledger: IsChainValid: INVALID: %s", err)
		return false
	}

	return true
}

// ValidateChain walks the chain and returns an IntegrityError identifying
// the first block that fails validation.
func (l *Ledger) ValidateChain() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, err := l.validate(l.chain)
	return err
}

// validate checks the genesis block, then every block's hash, linkage,
// difficulty and transactions. Balances are replayed so no block can spend
// value the sender does not hold. The difficulty each block must carry is
// replayed from the retarget rules. On success the difficulty for the next
// block is returned.
func (l *Ledger) validate(chain []database.Block) (uint, error) {
	if len(chain) == 0 {
		return 0, newIntegrityError(0, ErrGenesisMismatch, "chain is empty")
	}

	gen := l.genesisBlock()
	g := chain[0]
	if g.Index != gen.Index || g.PrevHash != gen.PrevHash || g.TimeStamp != gen.TimeStamp || g.Nonce != gen.Nonce || len(g.Trans) != 0 || g.Hash != gen.Hash {
		return 0, newIntegrityError(0, ErrGenesisMismatch, "got %s, exp %s", g.Hash, gen.Hash)
	}

	diff := l.genesis.Difficulty
	timestamps := minedTimestamps(chain)
	balances := make(map[database.Address]uint64)

	for i := 1; i < len(chain); i++ {
		b := chain[i]
		parent := chain[i-1]

		if b.Index != parent.Index+1 {
			return 0, newIntegrityError(b.Index, ErrBlockIndex, "got %d, exp %d", b.Index, parent.Index+1)
		}

		if !b.IsValid() {
			return 0, newIntegrityError(b.Index, ErrHashMismatch, "got %s, exp %s", b.Hash, b.CalculateHash())
		}

		if b.PrevHash != parent.Hash {
			return 0, newIntegrityError(b.Index, ErrBrokenLink, "got %s, exp %s", b.PrevHash, parent.Hash)
		}

		if b.Difficulty != diff {
			return 0, newIntegrityError(b.Index, ErrDifficulty, "got %d, exp %d", b.Difficulty, diff)
		}

		if !b.IsSolved(diff) {
			return 0, newIntegrityError(b.Index, ErrHashUnsolved, "hash %s, difficulty %d", b.Hash, diff)
		}

		if limit := int(l.genesis.TransPerBlock); limit > 0 && len(b.Trans) > limit {
			return 0, newIntegrityError(b.Index, ErrBlockSize, "got %d, max %d", len(b.Trans), limit)
		}

		if err := l.applyBlock(balances, b); err != nil {
			return 0, err
		}

		diff = l.ctrl.Next(diff, timestamps[:i])
	}

	return diff, nil
}

// applyBlock checks the transactions of a block and applies them to the
// replayed balances. The last transaction must be the only coinbase and it
// must pay the mining reward.
func (l *Ledger) applyBlock(balances map[database.Address]uint64, b database.Block) error {
	if len(b.Trans) == 0 {
		return newIntegrityError(b.Index, ErrCoinbase, "block has no transactions")
	}

	last := len(b.Trans) - 1

	for i, tx := range b.Trans {
		switch tx := tx.(type) {
		case database.Coinbase:
			if i != last {
				return newIntegrityError(b.Index, ErrCoinbase, "coinbase at position %d", i)
			}

			if !tx.To.IsAddress() {
				return newIntegrityError(b.Index, ErrCoinbase, "invalid reward address %q", tx.To)
			}

			if tx.Amount != l.genesis.MiningReward {
				return newIntegrityError(b.Index, ErrCoinbase, "reward %d, exp %d", tx.Amount, l.genesis.MiningReward)
			}

			balances[tx.To] += tx.Amount

		case database.Transfer:
			if i == last {
				return newIntegrityError(b.Index, ErrCoinbase, "block does not end with a coinbase")
			}

			if err := l.checkTransfer(tx); err != nil {
				var ve *ValidationError
				if errors.As(err, &ve) {
					return newIntegrityError(b.Index, ve.Err, "%s", ve.Msg)
				}
				return newIntegrityError(b.Index, err, "")
			}

			if balances[tx.From] < tx.Amount {
				return newIntegrityError(b.Index, ErrOverdraft, "account %s, bal %d, needed %d", tx.From, balances[tx.From], tx.Amount)
			}

			balances[tx.From] -= tx.Amount
			balances[tx.To] += tx.Amount

		default:
			return newIntegrityError(b.Index, ErrUnknownTx, "%T", tx)
		}
	}

	return nil
}
