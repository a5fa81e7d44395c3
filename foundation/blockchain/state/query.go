package state

import (
	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// QueryBalance returns the balance of the address by replaying the chain.
func (s *State) QueryBalance(address database.Address) uint64 {
	return s.ledger.GetBalance(address)
}

// QueryBalances returns the balance of every address seen on the chain.
func (s *State) QueryBalances() map[database.Address]uint64 {
	return s.ledger.Balances()
}

// QueryHistory returns every transaction involving the address.
func (s *State) QueryHistory(address database.Address) []ledger.HistoryEntry {
	return s.ledger.GetTransactionHistory(address)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return len(s.ledger.Pending())
}

// QueryBlock returns the block at the specified index.
func (s *State) QueryBlock(index uint64) (database.Block, error) {
	if index == QueryLatest {
		return s.ledger.LatestBlock(), nil
	}
	return s.ledger.BlockByIndex(index)
}

// QueryBlocks returns the blocks in the range from and to, inclusive. Either
// bound can be QueryLatest.
func (s *State) QueryBlocks(from uint64, to uint64) []database.Block {
	blocks := s.ledger.Blocks()
	latest := uint64(len(blocks) - 1)

	if from == QueryLatest {
		from = latest
	}
	if to == QueryLatest || to > latest {
		to = latest
	}

	if from > to {
		return nil
	}

	return blocks[from : to+1]
}
