// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"errors"
	"fmt"

	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"github.com/conscoin/blockchain/foundation/blockchain/ledger"
	"go.uber.org/zap"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// Loader provides access to a ledger snapshot.
type Loader interface {
	Load() (ledger.ChainData, error)
}

// load restores the snapshot into a ledger. The snapshot is fully validated
// on the way in.
func load(log *zap.SugaredLogger, gen genesis.Genesis, strg Loader) (*ledger.Ledger, error) {
	data, err := strg.Load()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	ev := func(v string, args ...any) {
		log.Debugf(v, args...)
	}

	l := ledger.New(ledger.Config{Genesis: gen, EvHandler: ev})
	if err := l.Import(data); err != nil {
		return nil, err
	}

	return l, nil
}
