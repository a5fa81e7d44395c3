package database

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/conscoin/blockchain/foundation/blockchain/signature"
)

// Tx represents a transaction recorded in a block. The set of concrete
// types is closed: a Tx is either a Coinbase or a Transfer.
type Tx interface {
	Recipient() Address
	Value() uint64
	Time() int64
	Data() TxData
	isTx()
}

// =============================================================================

// Coinbase is a value creating transaction with no sender. It credits a
// miner with the reward for producing a block.
type Coinbase struct {
	To        Address
	Amount    uint64
	TimeStamp int64
}

// NewCoinbase constructs a coinbase transaction for the specified address.
func NewCoinbase(to Address, amount uint64) Coinbase {
	return Coinbase{
		To:        to,
		Amount:    amount,
		TimeStamp: time.Now().UnixMilli(),
	}
}

// Recipient returns the account being credited.
func (tx Coinbase) Recipient() Address { return tx.To }

// Value returns the amount created.
func (tx Coinbase) Value() uint64 { return tx.Amount }

// Time returns the time the transaction was created in milliseconds.
func (tx Coinbase) Time() int64 { return tx.TimeStamp }

// Data returns the wire representation of the transaction.
func (tx Coinbase) Data() TxData {
	return TxData{
		ToAddress: tx.To,
		Amount:    tx.Amount,
		TimeStamp: tx.TimeStamp,
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Coinbase) String() string {
	return fmt.Sprintf("coinbase:%s:%d", tx.To, tx.Amount)
}

func (Coinbase) isTx() {}

// =============================================================================

// Transfer moves value between two accounts. The signature and public key
// are optional and only checked when present or when the ledger is
// configured to require them.
type Transfer struct {
	From      Address
	To        Address
	Amount    uint64
	TimeStamp int64
	Signature string
	PublicKey string
}

// NewTransfer constructs a transfer between two accounts.
func NewTransfer(from Address, to Address, amount uint64) Transfer {
	return Transfer{
		From:      from,
		To:        to,
		Amount:    amount,
		TimeStamp: time.Now().UnixMilli(),
	}
}

// Recipient returns the account being credited.
func (tx Transfer) Recipient() Address { return tx.To }

// Value returns the amount being moved.
func (tx Transfer) Value() uint64 { return tx.Amount }

// Time returns the time the transaction was created in milliseconds.
func (tx Transfer) Time() int64 { return tx.TimeStamp }

// Data returns the wire representation of the transaction.
func (tx Transfer) Data() TxData {
	from := tx.From
	return TxData{
		FromAddress: &from,
		ToAddress:   tx.To,
		Amount:      tx.Amount,
		TimeStamp:   tx.TimeStamp,
		Signature:   tx.Signature,
		PublicKey:   tx.PublicKey,
	}
}

// IsSigned reports whether the transfer carries signature material.
func (tx Transfer) IsSigned() bool {
	return tx.Signature != "" || tx.PublicKey != ""
}

// Sign uses the specified private key to sign the transfer. The public key
// is attached so the node can verify the signature.
func (tx Transfer) Sign(privateKey *ecdsa.PrivateKey) (Transfer, error) {
	sig, err := signature.Sign(tx.payload(), privateKey)
	if err != nil {
		return Transfer{}, err
	}

	tx.Signature = sig
	tx.PublicKey = signature.PublicKeyString(privateKey.PublicKey)

	return tx, nil
}

// VerifySignature checks the signature was produced over this transfer by
// the private key matching the attached public key.
func (tx Transfer) VerifySignature() error {
	return signature.Verify(tx.payload(), tx.Signature, tx.PublicKey)
}

// SignerAddress recovers the address of the account that signed the
// transfer.
func (tx Transfer) SignerAddress() (Address, error) {
	addr, err := signature.FromAddress(tx.payload(), tx.Signature)
	return Address(addr), err
}

// String implements the fmt.Stringer interface for logging.
func (tx Transfer) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.From, tx.To, tx.Amount)
}

func (Transfer) isTx() {}

// payload is the portion of the transfer covered by the signature.
func (tx Transfer) payload() any {
	return struct {
		From      Address `json:"fromAddress"`
		To        Address `json:"toAddress"`
		Amount    uint64  `json:"amount"`
		TimeStamp int64   `json:"timestamp"`
	}{
		From:      tx.From,
		To:        tx.To,
		Amount:    tx.Amount,
		TimeStamp: tx.TimeStamp,
	}
}

// =============================================================================

// TxData is the serialized form of a transaction. A null from address
// represents a coinbase transaction.
type TxData struct {
	FromAddress *Address `json:"fromAddress"`
	ToAddress   Address  `json:"toAddress"`
	Amount      uint64   `json:"amount"`
	TimeStamp   int64    `json:"timestamp"`
	Signature   string   `json:"signature,omitempty"`
	PublicKey   string   `json:"publicKey,omitempty"`
}

// ToTx converts the serialized form into a transaction.
func ToTx(data TxData) Tx {
	if data.FromAddress == nil {
		return Coinbase{
			To:        data.ToAddress,
			Amount:    data.Amount,
			TimeStamp: data.TimeStamp,
		}
	}

	return Transfer{
		From:      *data.FromAddress,
		To:        data.ToAddress,
		Amount:    data.Amount,
		TimeStamp: data.TimeStamp,
		Signature: data.Signature,
		PublicKey: data.PublicKey,
	}
}

// ToTxs converts a list of serialized transactions.
func ToTxs(data []TxData) []Tx {
	trans := make([]Tx, len(data))
	for i, d := range data {
		trans[i] = ToTx(d)
	}
	return trans
}

// NewTxDatas converts a list of transactions into their serialized form.
// The result is never nil so an empty list serializes as [].
func NewTxDatas(trans []Tx) []TxData {
	data := make([]TxData, len(trans))
	for i, tx := range trans {
		data[i] = tx.Data()
	}
	return data
}
