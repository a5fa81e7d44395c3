package database

import (
	"crypto/ecdsa"
	"errors"
	"unicode"

	"github.com/ethereum/go-ethereum/crypto"
)

// maxAddressLength is the longest address the ledger will accept.
const maxAddressLength = 128

// ErrInvalidAddress is returned when an address is not properly formatted.
var ErrInvalidAddress = errors.New("invalid address format")

// Address represents an account that can send and receive value on the
// ledger. Wallet generated addresses are hex encoded, but any printable name
// is a valid address.
type Address string

// ToAddress converts a string to an address and validates the string is
// formatted correctly.
func ToAddress(s string) (Address, error) {
	a := Address(s)
	if !a.IsAddress() {
		return "", ErrInvalidAddress
	}

	return a, nil
}

// PublicKeyToAddress converts the public key to an address value.
func PublicKeyToAddress(pk ecdsa.PublicKey) Address {
	return Address(crypto.PubkeyToAddress(pk).String())
}

// IsAddress verifies whether the underlying data represents a usable
// address. Empty values, very long values and values holding spaces or
// control characters are rejected.
func (a Address) IsAddress() bool {
	if len(a) == 0 || len(a) > maxAddressLength {
		return false
	}

	for _, r := range string(a) {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == unicode.ReplacementChar {
			return false
		}
	}

	return true
}
