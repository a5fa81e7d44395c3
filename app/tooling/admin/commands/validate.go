package commands

import (
	"errors"
	"fmt"

	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
	"go.uber.org/zap"
)

// Validate replays the snapshot and reports the first invalid block.
func Validate(log *zap.SugaredLogger, gen genesis.Genesis, strg Loader) error {
	l, err := load(log, gen, strg)
	if err != nil {
		var ie *ledger.IntegrityError
		if errors.As(err, &ie) {
			fmt.Printf("INVALID: block %d: %s\n", ie.Index, ie.Err)
		}
		return err
	}

	head := l.LatestBlock()
	fmt.Printf("VALID: blocks %d: head %s: difficulty %d\n", l.Height(), head.Hash, l.Difficulty())

	return nil
}
