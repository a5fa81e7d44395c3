package commands

import (
	"errors"
	"fmt"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"go.uber.org/zap"
)

// History prints every transaction sent or received by the address.
func History(address string, log *zap.SugaredLogger, gen genesis.Genesis, strg Loader) error {
	if address == "" {
		return errors.New("an address is required")
	}

	l, err := load(log, gen, strg)
	if err != nil {
		return err
	}

	for _, e := range l.GetTransactionHistory(database.Address(address)) {
		switch tx := e.Tx.(type) {
		case database.Coinbase:
			fmt.Printf("Block: %d  Coinbase  To: %s  Amount: %d\n", e.BlockIndex, tx.To, tx.Amount)
		case database.Transfer:
			fmt.Printf("Block: %d  From: %s  To: %s  Amount: %d\n", e.BlockIndex, tx.From, tx.To, tx.Amount)
		}
	}

	return nil
}
