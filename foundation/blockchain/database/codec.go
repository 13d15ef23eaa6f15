package database

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Serialize produces the canonical byte form of a block. Every object is
// encoded from a map so keys come out sorted at every level, and the
// transactions keep their stored order. Two structurally equal blocks always
// produce the same bytes no matter how they were constructed.
func Serialize(block Block) ([]byte, error) {
	trans := make([]map[string]any, len(block.Transactions))
	for i, tx := range block.Transactions {
		trans[i] = map[string]any{
			"amount":    tx.Amount,
			"recipient": tx.Recipient,
			"sender":    tx.Sender,
		}
	}

	doc := map[string]any{
		"index":         block.Index,
		"previous_hash": block.PreviousHash,
		"proof":         block.Proof,
		"timestamp":     block.Timestamp,
		"transactions":  trans,
	}

	return json.Marshal(doc)
}

// Digest returns the sha256 digest of the serialized block.
func Digest(block Block) ([sha256.Size]byte, error) {
	data, err := Serialize(block)
	if err != nil {
		return [sha256.Size]byte{}, err
	}

	return sha256.Sum256(data), nil
}

// Hash returns the digest of the block as a lowercase hex string. This is the
// value stored in the previous hash field of the next block.
//
// Serialize only fails on NaN or infinite numbers. Tx.Validate rejects those
// amounts, genesis.Validate rejects them as a reward, timestamps come from
// time.Time and blocks decoded from JSON can't hold them. A block assembled
// by hand with such a value hashes to ZeroHash, and ValidateChain rejects it
// since it checks links with Digest.
func Hash(block Block) string {
	digest, err := Digest(block)
	if err != nil {
		return ZeroHash
	}

	return hex.EncodeToString(digest[:])
}
