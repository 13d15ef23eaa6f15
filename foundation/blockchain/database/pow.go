package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ValidProof reports whether candidateProof solves the puzzle posed by
// previousProof. The puzzle hashes the decimal text of the candidate followed
// by the decimal text of the previous proof and needs difficulty leading
// zero hex characters. The block hash is not part of the puzzle so a miner
// never has to re-serialize a block per guess.
func ValidProof(difficulty uint16, previousProof uint64, candidateProof uint64) bool {
	var buf [40]byte
	guess := strconv.AppendUint(buf[:0], candidateProof, 10)
	guess = strconv.AppendUint(guess, previousProof, 10)

	sum := sha256.Sum256(guess)
	return isHashSolved(difficulty, hex.EncodeToString(sum[:]))
}

// SolveProof performs the work of mining. Starting at zero, the candidate is
// incremented until it solves the puzzle for previousProof. The search is
// unbounded and can only be stopped by cancelling the context.
func SolveProof(ctx context.Context, difficulty uint16, previousProof uint64, evHandler func(v string, args ...any)) (uint64, error) {
	ev := safeHandler(evHandler)

	ev("database: SolveProof: MINING: started: prevProof[%d]: difficulty[%d]", previousProof, difficulty)
	defer ev("database: SolveProof: MINING: completed")

	var proof uint64
	for {
		if proof > 0 && proof%1_000_000 == 0 {
			ev("database: SolveProof: MINING: attempts[%d]", proof)
		}

		// Did we get cancelled trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: SolveProof: MINING: CANCELLED")
			return 0, ctx.Err()
		}

		if ValidProof(difficulty, previousProof, proof) {
			ev("database: SolveProof: MINING: SOLVED: prevProof[%d]: proof[%d]", previousProof, proof)
			return proof, nil
		}

		proof++
	}
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint16, hash string) bool {
	if int(difficulty) > len(hash) || int(difficulty) > len(ZeroHash) {
		return false
	}

	return hash[:difficulty] == ZeroHash[:difficulty]
}

// safeHandler makes sure an event handler is always callable.
func safeHandler(evHandler func(v string, args ...any)) func(v string, args ...any) {
	if evHandler == nil {
		return func(v string, args ...any) {}
	}

	return evHandler
}
