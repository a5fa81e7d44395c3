package state

import (
	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
)

// RetrieveMinerAddress returns the address credited for blocks this node mines.
func (s *State) RetrieveMinerAddress() database.Address {
	return s.minerAddress
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveDifficulty returns the difficulty the next block will be mined with.
func (s *State) RetrieveDifficulty() uint {
	return s.ledger.Difficulty()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.ledger.LatestBlock()
}

// RetrieveMempool returns a copy of the mempool, oldest first.
func (s *State) RetrieveMempool() []database.Transfer {
	return s.ledger.Pending()
}
