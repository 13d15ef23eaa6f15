// Package memory implements the ability to read and write blocks to memory
// using a slice.
package memory

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Memory represents the storage implementation for reading and storing
// blocks in memory using a slice. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.Block
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified block and stores it in memory. Blocks must be
// written in index order.
func (m *Memory) Write(block database.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if exp := uint64(len(m.blocks)) + 1; block.Index != exp {
		return fmt.Errorf("block is out of order, got %d, exp %d", block.Index, exp)
	}

	m.blocks = append(m.blocks, block.Clone())

	return nil
}

// GetBlock returns the block stored at the specified index.
func (m *Memory) GetBlock(index uint64) (database.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if index == 0 || index > uint64(len(m.blocks)) {
		return database.Block{}, fmt.Errorf("%w: index %d", database.ErrNotFound, index)
	}

	return m.blocks[index-1].Clone(), nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with block index 1.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Reset will clear out the blockchain.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through the blocks in memory. This implements the database
// Iterator interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current block index being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block.
func (mi *memoryIterator) Next() (database.Block, error) {
	if mi.eoc {
		return database.Block{}, database.ErrNotFound
	}

	mi.current++
	block, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
	}

	return block, err
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
