// Package mempool maintains the pool of pending transfers waiting to be
// mined into a block.
package mempool

import (
	"sync"

	"github.com/conscoin/blockchain/foundation/blockchain/database"
)

// Mempool represents a first in, first out queue of transfers. Each method is
// safe for concurrent use.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Transfer
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the back of the pool and returns the new
// size of the pool.
func (mp *Mempool) Add(tx database.Transfer) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Take removes and returns up to howMany of the oldest transactions. A
// value of -1 takes every transaction.
func (mp *Mempool) Take(howMany int) []database.Transfer {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if howMany < 0 || howMany > len(mp.pool) {
		howMany = len(mp.pool)
	}

	trans := make([]database.Transfer, howMany)
	copy(trans, mp.pool[:howMany])

	mp.pool = append([]database.Transfer(nil), mp.pool[howMany:]...)

	return trans
}

// PushFront puts transactions back at the front of the pool, keeping their
// order. This is used to return transactions from a block that failed to be
// mined.
func (mp *Mempool) PushFront(trans []database.Transfer) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := make([]database.Transfer, 0, len(trans)+len(mp.pool))
	pool = append(pool, trans...)
	mp.pool = append(pool, mp.pool...)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Copy returns a copy of the pool, oldest first.
func (mp *Mempool) Copy() []database.Transfer {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Transfer, len(mp.pool))
	copy(trans, mp.pool)

	return trans
}

// PendingFrom returns the total amount the specified address is already
// spending in the pool.
func (mp *Mempool) PendingFrom(from database.Address) uint64 {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var total uint64
	for _, tx := range mp.pool {
		if tx.From == from {
			total += tx.Amount
		}
	}

	return total
}
