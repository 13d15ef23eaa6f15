// Package mempool maintains the pool of pending transactions for the
// blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents the ordered list of transactions waiting to be placed
// into the next mined block. Transactions keep the order they were
// submitted in and duplicates are allowed.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new size.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns the transactions in the pool in submission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Tx, len(mp.pool))
	copy(trans, mp.pool)

	return trans
}

// Drop removes the oldest n transactions from the pool. This is used once
// a block holding those transactions has been committed, so anything added
// after the block was assembled stays pending.
func (mp *Mempool) Drop(n int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if n >= len(mp.pool) {
		mp.pool = nil
		return
	}

	if n <= 0 {
		return
	}

	remaining := make([]database.Tx, len(mp.pool)-n)
	copy(remaining, mp.pool[n:])
	mp.pool = remaining
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
