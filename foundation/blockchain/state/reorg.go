package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ReplaceChain overwrites the local chain in memory and in storage. No
// validation takes place here, the caller is trusted to have validated the
// chain. Pending transactions are kept, and any block index handed out as a
// receipt before the swap may no longer be accurate.
func (s *State) ReplaceChain(chain []database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceChain(chain)
}

// ResolveConflicts asks every known peer for its chain and adopts the
// longest valid chain that is strictly longer than the local one. Peers that
// can't be reached or return garbage are left out. It returns whether the
// chain was replaced along with the chain now held by the node.
func (s *State) ResolveConflicts(ctx context.Context) (bool, []database.Block, error) {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	peerChains := s.NetRequestPeerChains(ctx, s.RetrieveKnownPeers())

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced, err := consensus.Resolve(lockedLedger{state: s}, peerChains, s.genesis.Difficulty, s.evHandler)
	if err != nil {
		return false, nil, err
	}

	if replaced {
		s.evHandler("viewer: chain replaced: length[%d]: tip[%s]", s.db.Length(), s.db.LatestBlock().Hash())
	}

	return replaced, s.db.Copy(), nil
}

// replaceChain performs the replacement. The caller must hold the lock.
func (s *State) replaceChain(chain []database.Block) error {
	s.evHandler("state: replaceChain: length[%d]", len(chain))

	return s.db.Replace(chain)
}

// =============================================================================

// lockedLedger gives consensus access to the chain while State already holds
// its lock.
type lockedLedger struct {
	state *State
}

// ChainLength implements the consensus.Ledger interface.
func (l lockedLedger) ChainLength() int {
	return l.state.db.Length()
}

// ReplaceChain implements the consensus.Ledger interface.
func (l lockedLedger) ReplaceChain(chain []database.Block) error {
	return l.state.replaceChain(chain)
}
