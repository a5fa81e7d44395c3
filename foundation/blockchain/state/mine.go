package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
)

// MineNewBlock mines the next block crediting the node's miner address.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	return s.MineNewBlockFor(ctx, s.minerAddress)
}

// MineNewBlockFor mines the next block crediting the specified address and
// persists the result.
func (s *State) MineNewBlockFor(ctx context.Context, reward database.Address) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started: reward[%s]", reward)
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	block, err := s.ledger.MineNext(ctx, reward)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("viewer: block[%d]: hash[%s]: txs[%d]", block.Index, block.Hash, len(block.Trans))

	if err := s.persist(); err != nil {
		return block, err
	}

	return block, nil
}

// Sync replaces the local chain with the supplied chain when it is valid and
// longer. Any mining in progress is cancelled since its block would be stale.
func (s *State) Sync(data ledger.ChainData) error {
	s.evHandler("state: Sync: started: blocks[%d]", len(data.Chain))
	defer s.evHandler("state: Sync: completed")

	if err := s.ledger.Sync(data); err != nil {
		return err
	}

	if s.Worker != nil {
		s.Worker.SignalCancelMining()
	}

	s.evHandler("viewer: sync: blocks[%d]", s.ledger.Height())

	return s.persist()
}

// IsStaleBlock reports whether mining failed because the chain changed.
func IsStaleBlock(err error) bool {
	return errors.Is(err, ledger.ErrStaleBlock)
}

// Export returns the serialized form of the ledger.
func (s *State) Export() ledger.ChainData {
	return s.ledger.Export()
}

// ValidateChain walks the full chain and returns the first failure.
func (s *State) ValidateChain() error {
	if err := s.ledger.ValidateChain(); err != nil {
		return fmt.Errorf("validate chain: %w", err)
	}
	return nil
}

// IsChainValid reports whether the full chain passes validation.
func (s *State) IsChainValid() bool {
	return s.ledger.IsChainValid()
}
