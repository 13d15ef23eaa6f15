package database

import (
	"time"
)

// Genesis block sentinels. The genesis block is manufactured once when a
// chain is created and is never validated against a predecessor.
const (
	GenesisIndex        uint64 = 1
	GenesisProof        uint64 = 100
	GenesisPreviousHash string = "1"
)

// =============================================================================

// Block represents a group of transactions batched together and linked to the
// block before it.
type Block struct {
	Index        uint64  `json:"index"`         // Position in the chain, genesis is 1.
	Timestamp    float64 `json:"timestamp"`     // Seconds since epoch the block was minted.
	Transactions []Tx    `json:"transactions"`  // Transactions in the order they entered the pending pool.
	Proof        uint64  `json:"proof"`         // Value solving the puzzle posed by the previous block's proof.
	PreviousHash string  `json:"previous_hash"` // Hash of the previous block in the chain.
}

// NewGenesisBlock manufactures the first block of a chain.
func NewGenesisBlock(now time.Time) Block {
	return Block{
		Index:        GenesisIndex,
		Timestamp:    toTimestamp(now),
		Transactions: []Tx{},
		Proof:        GenesisProof,
		PreviousHash: GenesisPreviousHash,
	}
}

// NewBlock constructs the block that follows prevBlock. The timestamp never
// goes backwards relative to the parent block.
func NewBlock(prevBlock Block, trans []Tx, proof uint64, now time.Time) Block {
	timestamp := toTimestamp(now)
	if timestamp < prevBlock.Timestamp {
		timestamp = prevBlock.Timestamp
	}

	cpy := make([]Tx, len(trans))
	copy(cpy, trans)

	return Block{
		Index:        prevBlock.Index + 1,
		Timestamp:    timestamp,
		Transactions: cpy,
		Proof:        proof,
		PreviousHash: prevBlock.Hash(),
	}
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return Hash(b)
}

// Clone returns a copy of the block that shares no memory with the original.
func (b Block) Clone() Block {
	trans := make([]Tx, len(b.Transactions))
	copy(trans, b.Transactions)
	b.Transactions = trans

	return b
}

// toTimestamp converts a time into fractional seconds since epoch.
func toTimestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// =============================================================================

// ChainData represents the chain as it is served to clients and peers.
type ChainData struct {
	Chain  []Block `json:"chain"`
	Length int     `json:"length"`
}

// NewChainData constructs the value to serialize over the network.
func NewChainData(chain []Block) ChainData {
	return ChainData{
		Chain:  chain,
		Length: len(chain),
	}
}

// CopyChain returns a deep copy of the chain.
func CopyChain(chain []Block) []Block {
	cpy := make([]Block, len(chain))
	for i, block := range chain {
		cpy[i] = block.Clone()
	}

	return cpy
}
