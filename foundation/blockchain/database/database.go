// Package database handles all the lower level support for maintaining the
// blockchain in storage and validating the blocks it is made of.
package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// ErrBlockRejected is returned when a block does not extend the current tip.
var ErrBlockRejected = errors.New("block does not extend the chain")

// Database manages the ordered list of blocks that make up the ledger.
type Database struct {
	mu sync.RWMutex

	genesis genesis.Genesis
	chain   []Block
	storage Storage
}

// New constructs a new database and reads the blockchain from storage. When
// storage is empty the genesis block is manufactured and written.
func New(gen genesis.Genesis, storage Storage, evHandler func(v string, args ...any)) (*Database, error) {
	ev := safeHandler(evHandler)

	db := Database{
		genesis: gen,
		storage: storage,
	}

	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		db.chain = append(db.chain, block)
	}

	if len(db.chain) == 0 {
		block := NewGenesisBlock(time.Now())
		if err := storage.Write(block); err != nil {
			return nil, fmt.Errorf("writing genesis block: %w", err)
		}

		ev("database: New: genesis: hash[%s]", block.Hash())

		db.chain = []Block{block}
		return &db, nil
	}

	if err := ValidateChain(db.chain, gen.Difficulty, ev); err != nil {
		return nil, fmt.Errorf("loading chain from storage: %w", err)
	}

	ev("database: New: loaded: blocks[%d]", len(db.chain))

	return &db, nil
}

// Close closes the open blocks database.
func (db *Database) Close() error {
	return db.storage.Close()
}

// Genesis returns the consensus parameters the chain was opened with.
func (db *Database) Genesis() genesis.Genesis {
	return db.genesis
}

// LatestBlock returns the tip of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.chain[len(db.chain)-1].Clone()
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.chain)
}

// Copy returns a deep copy of the current chain.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return CopyChain(db.chain)
}

// GetBlock returns the block at the specified index.
func (db *Database) GetBlock(index uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index < GenesisIndex || index > uint64(len(db.chain)) {
		return Block{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}

	return db.chain[index-1].Clone(), nil
}

// Append writes the block to storage and makes it the new tip. The block must
// directly extend the current tip.
func (db *Database) Append(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tip := db.chain[len(db.chain)-1]

	if block.Index != tip.Index+1 {
		return fmt.Errorf("%w: got index %d, exp %d", ErrBlockRejected, block.Index, tip.Index+1)
	}

	if hash := tip.Hash(); block.PreviousHash != hash {
		return fmt.Errorf("%w: parent hash %s, exp %s", ErrBlockRejected, block.PreviousHash, hash)
	}

	if err := db.storage.Write(block); err != nil {
		return err
	}

	db.chain = append(db.chain, block.Clone())

	return nil
}

// Replace swaps the entire chain for the one provided. The caller is expected
// to have validated the chain first, but the index sequence is checked again
// here since storage is keyed by index. The swap is all or nothing: if the
// new chain can't be written, storage is restored to the current chain.
func (db *Database) Replace(chain []Block) error {
	if len(chain) == 0 {
		return ErrChainEmpty
	}

	for i, block := range chain {
		if exp := GenesisIndex + uint64(i); block.Index != exp {
			return fmt.Errorf("%w: blk[%d]: out of sequence, exp %d", ErrInvalidChain, block.Index, exp)
		}
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := writeChain(db.storage, chain); err != nil {
		if rerr := writeChain(db.storage, db.chain); rerr != nil {
			return fmt.Errorf("replacing chain: %w: restoring chain: %w", err, rerr)
		}
		return fmt.Errorf("replacing chain: %w", err)
	}

	db.chain = CopyChain(chain)

	return nil
}

// writeChain overwrites everything in storage with the chain.
func writeChain(storage Storage, chain []Block) error {
	if r, ok := storage.(Replacer); ok {
		return r.ReplaceAll(chain)
	}

	if err := storage.Reset(); err != nil {
		return fmt.Errorf("resetting storage: %w", err)
	}

	for _, block := range chain {
		if err := storage.Write(block); err != nil {
			return fmt.Errorf("writing blk[%d]: %w", block.Index, err)
		}
	}

	return nil
}
