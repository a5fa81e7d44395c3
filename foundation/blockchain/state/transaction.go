package state

import "github.com/conscoin/blockchain/foundation/blockchain/database"

// SubmitTransaction accepts a transaction from a wallet for inclusion in
// a future block.
func (s *State) SubmitTransaction(tx database.Tx) error {
	if err := s.ledger.AddTransaction(tx); err != nil {
		return err
	}

	if err := s.persist(); err != nil {
		return err
	}

	if s.autoMine && s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}
