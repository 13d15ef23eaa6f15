package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RegisterPeers adds the addresses to the set of known peers and returns the
// current set. Every address is validated before any is added so a bad
// entry leaves the set untouched. Known peers are not added twice.
func (s *State) RegisterPeers(addresses []string) ([]peer.Peer, error) {
	peers := make([]peer.Peer, 0, len(addresses))
	for _, address := range addresses {
		pr, err := peer.ParseAddress(address)
		if err != nil {
			return nil, err
		}
		peers = append(peers, pr)
	}

	for _, pr := range peers {
		if s.knownPeers.Add(pr) {
			s.evHandler("state: RegisterPeers: added: peer[%s]", pr.Host)
		}
	}

	return s.knownPeers.Copy(""), nil
}

// AddKnownPeer provides the ability to add a new peer.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	return s.knownPeers.Add(pr)
}

// RemoveKnownPeer provides the ability to remove a peer.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.knownPeers.Remove(pr)
}
