package database

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Set of errors returned when validating a chain.
var (
	ErrChainEmpty   = errors.New("chain has no blocks")
	ErrInvalidChain = errors.New("chain is invalid")
)

// ValidateChain walks every adjacent pair of blocks and checks the index
// sequence, the link and the proof of work. The chain must start at the
// genesis index with every block one past its parent. Beyond its index the
// genesis block is trusted as is and transactions are not interpreted.
func ValidateChain(chain []Block, difficulty uint16, evHandler func(v string, args ...any)) error {
	ev := safeHandler(evHandler)

	if len(chain) == 0 {
		return ErrChainEmpty
	}

	prevBlock := chain[0]
	if prevBlock.Index != GenesisIndex {
		return fmt.Errorf("%w: genesis index is %d, exp %d", ErrInvalidChain, prevBlock.Index, GenesisIndex)
	}

	for _, block := range chain[1:] {
		ev("database: ValidateChain: validate: blk[%d]: check: index follows parent block", block.Index)

		if block.Index != prevBlock.Index+1 {
			return fmt.Errorf("%w: blk[%d]: index doesn't follow parent, exp %d", ErrInvalidChain, block.Index, prevBlock.Index+1)
		}

		ev("database: ValidateChain: validate: blk[%d]: check: parent hash does match parent block", block.Index)

		digest, err := Digest(prevBlock)
		if err != nil {
			return fmt.Errorf("%w: blk[%d]: encoding: %s", ErrInvalidChain, prevBlock.Index, err)
		}

		if hash := hex.EncodeToString(digest[:]); block.PreviousHash != hash {
			return fmt.Errorf("%w: blk[%d]: parent block hash doesn't match, got %s, exp %s", ErrInvalidChain, block.Index, block.PreviousHash, hash)
		}

		ev("database: ValidateChain: validate: blk[%d]: check: proof solves parent proof", block.Index)

		if !ValidProof(difficulty, prevBlock.Proof, block.Proof) {
			return fmt.Errorf("%w: blk[%d]: proof %d does not solve parent proof %d", ErrInvalidChain, block.Index, block.Proof, prevBlock.Proof)
		}

		prevBlock = block
	}

	if _, err := Digest(prevBlock); err != nil {
		return fmt.Errorf("%w: blk[%d]: encoding: %s", ErrInvalidChain, prevBlock.Index, err)
	}

	return nil
}

// IsValidChain is the boolean form of ValidateChain.
func IsValidChain(chain []Block, difficulty uint16) bool {
	return ValidateChain(chain, difficulty, nil) == nil
}
