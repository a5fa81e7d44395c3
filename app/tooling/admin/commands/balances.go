package commands

import (
	"fmt"
	"sort"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/conscoin/blockchain/foundation/blockchain/genesis"
	"go.uber.org/zap"
)

// Balances prints the current set of balances. When an address is provided
// only that balance is printed.
func Balances(address string, log *zap.SugaredLogger, gen genesis.Genesis, strg Loader) error {
	l, err := load(log, gen, strg)
	if err != nil {
		return err
	}

	fmt.Printf("LatestBlockHash: %s\n\n", l.LatestBlock().Hash)

	if address != "" {
		fmt.Printf("Address: %s  Balance: %d\n", address, l.GetBalance(database.Address(address)))
		return nil
	}

	bals := l.Balances()

	addrs := make([]database.Address, 0, len(bals))
	for addr := range bals {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		fmt.Printf("Address: %s  Balance: %d\n", addr, bals[addr])
	}

	return nil
}
