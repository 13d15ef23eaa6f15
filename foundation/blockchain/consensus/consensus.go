// Package consensus implements the longest valid chain rule used to settle
// disagreements between nodes.
package consensus

import (
	"sort"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Ledger represents the behavior consensus needs from the local chain.
type Ledger interface {
	ChainLength() int
	ReplaceChain(chain []database.Block) error
}

// Select returns the peer chain that should replace a local chain of the
// specified length. A chain must be strictly longer than both the local chain
// and every earlier winner and it must validate. Lengths are taken from the
// chains themselves, never from what a peer claims. Peers are examined in
// ascending peer id order so equally long chains resolve to the lowest id.
func Select(localLength int, peerChains map[string][]database.Block, difficulty uint16, evHandler func(v string, args ...any)) (string, []database.Block, bool) {
	ev := evHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	peerIDs := make([]string, 0, len(peerChains))
	for peerID := range peerChains {
		peerIDs = append(peerIDs, peerID)
	}
	sort.Strings(peerIDs)

	var winnerID string
	var winner []database.Block
	maxLength := localLength

	for _, peerID := range peerIDs {
		chain := peerChains[peerID]

		if len(chain) <= maxLength {
			ev("consensus: Select: peer[%s]: skipped: length[%d] not longer than [%d]", peerID, len(chain), maxLength)
			continue
		}

		if err := database.ValidateChain(chain, difficulty, nil); err != nil {
			ev("consensus: Select: peer[%s]: rejected: %s", peerID, err)
			continue
		}

		ev("consensus: Select: peer[%s]: candidate: length[%d]", peerID, len(chain))

		winnerID = peerID
		winner = chain
		maxLength = len(chain)
	}

	return winnerID, winner, winner != nil
}

// Resolve applies the longest valid chain rule against the ledger. It reports
// whether the ledger's chain was replaced. Peers that failed to answer should
// be left out of peerChains.
func Resolve(ledger Ledger, peerChains map[string][]database.Block, difficulty uint16, evHandler func(v string, args ...any)) (bool, error) {
	peerID, winner, found := Select(ledger.ChainLength(), peerChains, difficulty, evHandler)
	if !found {
		return false, nil
	}

	if err := ledger.ReplaceChain(winner); err != nil {
		return false, err
	}

	if evHandler != nil {
		evHandler("consensus: Resolve: replaced: peer[%s]: length[%d]", peerID, len(winner))
	}

	return true, nil
}
