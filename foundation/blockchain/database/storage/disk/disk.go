// Package disk implements the ability to read and write blocks to disk
// writing each block to a separate block numbered file.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Disk represents the storage implementation for reading and storing blocks
// in their own separate files on disk. This implements the database.Storage
// interface.
type Disk struct {
	dbPath string
}

// New constructs a Disk value for use.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each new block and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified block and stores it on disk in a file labeled
// with the block index.
func (d *Disk) Write(block database.Block) error {

	// Marshal the block for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(d.getPath(block.Index), data, 0600)
}

// GetBlock searches the blockchain on disk to locate and return the
// contents of the specified block by index.
func (d *Disk) GetBlock(index uint64) (database.Block, error) {
	f, err := os.Open(d.getPath(index))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return database.Block{}, fmt.Errorf("%w: index %d", database.ErrNotFound, index)
		}
		return database.Block{}, err
	}
	defer f.Close()

	var block database.Block
	if err := json.NewDecoder(f).Decode(&block); err != nil {
		return database.Block{}, fmt.Errorf("decoding blk[%d]: %w", index, err)
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with block index 1.
func (d *Disk) ForEach() database.Iterator {
	return &diskIterator{disk: d}
}

// Reset will clear out the blockchain on disk.
func (d *Disk) Reset() error {
	if err := os.RemoveAll(d.dbPath); err != nil {
		return err
	}

	return os.MkdirAll(d.dbPath, 0755)
}

// getPath forms the path to the specified block.
func (d *Disk) getPath(index uint64) string {
	name := strconv.FormatUint(index, 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// diskIterator represents the iteration implementation for walking
// through and reading blocks on disk. This implements the database
// Iterator interface.
type diskIterator struct {
	disk    *Disk  // Access to the disk storage API.
	current uint64 // Current block index being iterated over.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from disk. A missing file marks the end of
// the chain, any other failure is returned to the caller.
func (di *diskIterator) Next() (database.Block, error) {
	if di.eoc {
		return database.Block{}, database.ErrNotFound
	}

	di.current++
	block, err := di.disk.GetBlock(di.current)
	if errors.Is(err, database.ErrNotFound) {
		di.eoc = true
	}

	return block, err
}

// Done returns the end of chain value.
func (di *diskIterator) Done() bool {
	return di.eoc
}
