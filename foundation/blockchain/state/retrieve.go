package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveMinerAccount returns the identity rewarded for blocks mined by
// this node.
func (s *State) RetrieveMinerAccount() string {
	return s.minerAccount
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.LatestBlock()
}

// RetrieveChain returns a consistent copy of the entire chain.
func (s *State) RetrieveChain() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Copy()
}

// RetrievePending returns a copy of the pending pool in submission order.
func (s *State) RetrievePending() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveStatus returns the status this node reports to its peers.
func (s *State) RetrieveStatus() peer.PeerStatus {
	s.mu.RLock()
	latest := s.db.LatestBlock()
	length := s.db.Length()
	s.mu.RUnlock()

	return peer.PeerStatus{
		LatestBlockHash:  latest.Hash(),
		LatestBlockIndex: latest.Index,
		Length:           length,
		KnownPeers:       s.RetrieveKnownPeers(),
	}
}
