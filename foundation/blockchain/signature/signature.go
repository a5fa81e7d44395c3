// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// HashLength is the number of hex characters in a hash produced by Hash.
const HashLength = 2 * sha256.Size

// consID is an arbitrary value mixed into every signed message. This makes
// it clear the signature was produced for the ConsCoin ledger.
const consID = "\x19ConsCoin Signed Message:\n32"

// Set of error variables for signature handling.
var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// =============================================================================

// Hash returns the lowercase hex encoded SHA-256 digest of the data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Sign uses the specified private key to sign the value. The signature is
// returned in its 65 byte [R|S|V] form, hex encoded with a 0x prefix.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	return hexutil.Encode(sig), nil
}

// Verify checks the signature was produced for the value by the private key
// matching the hex encoded public key.
func Verify(value any, sigHex string, publicKeyHex string) error {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", ErrInvalidSignature)
	}

	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("signature length %d: %w", len(sig), ErrInvalidSignature)
	}

	pub, err := hexutil.Decode(publicKeyHex)
	if err != nil {
		return fmt.Errorf("decoding public key: %w", ErrInvalidPublicKey)
	}

	if _, err := crypto.UnmarshalPubkey(pub); err != nil {
		return fmt.Errorf("unmarshal public key: %w", ErrInvalidPublicKey)
	}

	data, err := stamp(value)
	if err != nil {
		return err
	}

	// The recovery id is not part of the verification.
	if !crypto.VerifySignature(pub, data, sig[:crypto.RecoveryIDOffset]) {
		return ErrInvalidSignature
	}

	return nil
}

// FromAddress extracts the address for the account that signed the value.
func FromAddress(value any, sigHex string) (string, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return "", fmt.Errorf("decoding signature: %w", ErrInvalidSignature)
	}

	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", fmt.Errorf("recover public key: %w", ErrInvalidSignature)
	}

	return crypto.PubkeyToAddress(*publicKey).String(), nil
}

// PublicKeyString returns the uncompressed public key hex encoded with a
// 0x prefix.
func PublicKeyString(publicKey ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(&publicKey))
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this value with
// the ConsCoin stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Hash the data into a 32 byte array. This will provide
	// a data length consistency with all data.
	txHash := crypto.Keccak256(v)

	return crypto.Keccak256([]byte(consID), txHash), nil
}
