// Package pebbledb implements the ability to read and write blocks to a
// pebble key value store. Blocks are keyed by a fixed width index so the
// natural key order is the chain order.
package pebbledb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/cockroachdb/pebble"
)

// prefixBlocks namespaces the block keys inside the store.
const prefixBlocks = "blk:"

// Pebble represents the storage implementation for reading and storing
// blocks in a pebble database. This implements the database.Storage
// interface.
type Pebble struct {
	db *pebble.DB
}

// New opens or creates the pebble database at the specified path.
func New(dbPath string) (*Pebble, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := pebble.Options{
		Cache:        pebble.NewCache(64 << 20),
		MaxOpenFiles: 500,
	}
	defer opts.Cache.Unref()

	db, err := pebble.Open(dbPath, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Pebble{db: db}, nil
}

// Close flushes and closes the database.
func (p *Pebble) Close() error {
	return p.db.Close()
}

// Write takes the specified block and stores it under its index.
func (p *Pebble) Write(block database.Block) error {
	data, err := json.Marshal(block)
	if err != nil {
		return err
	}

	return p.db.Set(blockKey(block.Index), data, pebble.Sync)
}

// GetBlock returns the block stored at the specified index.
func (p *Pebble) GetBlock(index uint64) (database.Block, error) {
	value, closer, err := p.db.Get(blockKey(index))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return database.Block{}, fmt.Errorf("%w: index %d", database.ErrNotFound, index)
		}
		return database.Block{}, err
	}
	defer closer.Close()

	var block database.Block
	if err := json.Unmarshal(value, &block); err != nil {
		return database.Block{}, fmt.Errorf("decoding blk[%d]: %w", index, err)
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with block index 1.
func (p *Pebble) ForEach() database.Iterator {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefixBlocks),
		UpperBound: prefixUpperBound([]byte(prefixBlocks)),
	})
	if err != nil {
		return &pebbleIterator{err: err}
	}

	iter.First()
	return &pebbleIterator{iter: iter}
}

// Reset deletes every block in a single atomic batch.
func (p *Pebble) Reset() error {
	batch := p.db.NewBatch()
	defer batch.Close()

	if err := batch.DeleteRange([]byte(prefixBlocks), prefixUpperBound([]byte(prefixBlocks)), nil); err != nil {
		return err
	}

	return batch.Commit(pebble.Sync)
}

// ReplaceAll deletes every block and writes the chain in a single atomic
// batch. Either the whole chain is stored or nothing changes.
func (p *Pebble) ReplaceAll(chain []database.Block) error {
	batch := p.db.NewBatch()
	defer batch.Close()

	if err := batch.DeleteRange([]byte(prefixBlocks), prefixUpperBound([]byte(prefixBlocks)), nil); err != nil {
		return err
	}

	for _, block := range chain {
		data, err := json.Marshal(block)
		if err != nil {
			return fmt.Errorf("encoding blk[%d]: %w", block.Index, err)
		}

		if err := batch.Set(blockKey(block.Index), data, nil); err != nil {
			return err
		}
	}

	return batch.Commit(pebble.Sync)
}

// blockKey forms the key for the specified block index.
func blockKey(index uint64) []byte {
	return fmt.Appendf(nil, "%s%020d", prefixBlocks, index)
}

// prefixUpperBound returns the smallest key greater than every key with the
// specified prefix.
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// =============================================================================

// pebbleIterator walks the block keys in order. This implements the database
// Iterator interface.
type pebbleIterator struct {
	iter *pebble.Iterator
	err  error // Error opening the iterator, returned on the first call.
	eoc  bool  // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from the store.
func (pi *pebbleIterator) Next() (database.Block, error) {
	if pi.eoc {
		return database.Block{}, database.ErrNotFound
	}

	if pi.err != nil {
		return database.Block{}, pi.err
	}

	if !pi.iter.Valid() {
		pi.eoc = true
		pi.iter.Close()
		return database.Block{}, database.ErrNotFound
	}

	var block database.Block
	if err := json.Unmarshal(pi.iter.Value(), &block); err != nil {
		return database.Block{}, fmt.Errorf("decoding key %s: %w", pi.iter.Key(), err)
	}

	pi.iter.Next()

	return block, nil
}

// Done returns the end of chain value.
func (pi *pebbleIterator) Done() bool {
	return pi.eoc
}
