package database

import "errors"

// ErrNotFound is returned when a block can't be located by index.
var ErrNotFound = errors.New("block not found")

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(block Block) error
	GetBlock(index uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Replacer is implemented by storage that can swap the entire chain in one
// atomic step. Database.Replace uses it when available.
type Replacer interface {
	ReplaceAll(chain []Block) error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks. Next returns an error
// once the end of the chain is reached and Done reports true from then on.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}
