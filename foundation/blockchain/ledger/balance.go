package ledger

import (
	"github.com/conscoin/blockchain/foundation/blockchain/database"
)

// HistoryEntry is a transaction involving an address along with the block
// that recorded it.
type HistoryEntry struct {
	BlockIndex uint64
	BlockHash  string
	Tx         database.Tx
}

// GetBalance replays the full chain to compute the balance of the address.
func (l *Ledger) GetBalance(address database.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return balanceOf(l.chain, address)
}

// GetTransactionHistory replays the full chain and returns every
// transaction where the address is the sender or the recipient.
func (l *Ledger) GetTransactionHistory(address database.Address) []HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []HistoryEntry
	for _, b := range l.chain {
		for _, tx := range b.Trans {
			if involves(tx, address) {
				out = append(out, HistoryEntry{BlockIndex: b.Index, BlockHash: b.Hash, Tx: tx})
			}
		}
	}

	return out
}

// Balances replays the full chain and returns the balance of every address
// that has appeared in a transaction.
func (l *Ledger) Balances() map[database.Address]uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	credits := make(map[database.Address]uint64)
	debits := make(map[database.Address]uint64)

	for _, b := range l.chain {
		for _, tx := range b.Trans {
			credits[tx.Recipient()] += tx.Value()
			if t, ok := tx.(database.Transfer); ok {
				debits[t.From] += t.Amount
				if _, exists := credits[t.From]; !exists {
					credits[t.From] = 0
				}
			}
		}
	}

	balances := make(map[database.Address]uint64, len(credits))
	for addr, credit := range credits {
		balances[addr] = subFloor(credit, debits[addr])
	}

	return balances
}

// =============================================================================

// balanceOf computes the balance of the address by replaying the chain.
func balanceOf(chain []database.Block, address database.Address) uint64 {
	var credit, debit uint64

	for _, b := range chain {
		for _, tx := range b.Trans {
			if tx.Recipient() == address {
				credit += tx.Value()
			}
			if t, ok := tx.(database.Transfer); ok && t.From == address {
				debit += t.Amount
			}
		}
	}

	return subFloor(credit, debit)
}

// involves reports whether the address sends or receives the transaction.
func involves(tx database.Tx, address database.Address) bool {
	if tx.Recipient() == address {
		return true
	}

	t, ok := tx.(database.Transfer)
	return ok && t.From == address
}

// subFloor subtracts without wrapping below zero. A validated chain never
// needs the floor.
func subFloor(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
