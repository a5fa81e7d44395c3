// Package nameservice reads a folder of account key files and creates a name
// service lookup for the addresses they control.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
)

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	names map[database.Address]string
	addrs map[string]database.Address
}

// New constructs a name service with the accounts found in the specified
// folder. Each <name>.ecdsa file names the address of its key. A missing
// folder produces an empty name service.
func New(root string) (*NameService, error) {
	ns := NameService{
		names: make(map[database.Address]string),
		addrs: make(map[string]database.Address),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || filepath.Ext(fileName) != ".ecdsa" {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return fmt.Errorf("loading key %s: %w", fileName, err)
		}

		address := database.PublicKeyToAddress(privateKey.PublicKey)
		name := strings.TrimSuffix(filepath.Base(fileName), ".ecdsa")

		ns.names[address] = name
		ns.addrs[name] = address

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ns, nil
		}
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address. The address itself is
// returned when it has no name.
func (ns *NameService) Lookup(address database.Address) string {
	name, exists := ns.names[address]
	if !exists {
		return string(address)
	}
	return name
}

// Resolve returns the address for a name. A value that is not a known name
// is returned as an address unchanged.
func (ns *NameService) Resolve(nameOrAddress string) database.Address {
	if address, exists := ns.addrs[nameOrAddress]; exists {
		return address
	}
	return database.Address(nameOrAddress)
}

// Copy returns a copy of the map of names and addresses.
func (ns *NameService) Copy() map[database.Address]string {
	cpy := make(map[database.Address]string, len(ns.names))
	for address, name := range ns.names {
		cpy[address] = name
	}
	return cpy
}
