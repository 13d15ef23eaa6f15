// Package peer maintains the peer related information such as the set
// of known peers and their status.
package peer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidPeer is returned when an address can't be turned into a peer.
var ErrInvalidPeer = errors.New("invalid peer address")

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New constructs a new peer value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// ParseAddress extracts the network location from an address. Both the
// "http://host:port" and the bare "host:port" forms are accepted and produce
// the same peer.
func ParseAddress(address string) (Peer, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Peer{}, fmt.Errorf("%w: empty address", ErrInvalidPeer)
	}

	host := address
	if strings.Contains(address, "://") {
		u, err := url.Parse(address)
		if err != nil {
			return Peer{}, fmt.Errorf("%w: %q: %s", ErrInvalidPeer, address, err)
		}
		host = u.Host
	} else {
		host = strings.TrimSuffix(host, "/")
	}

	if host == "" || strings.ContainsAny(host, "/ \t?#") {
		return Peer{}, fmt.Errorf("%w: %q", ErrInvalidPeer, address)
	}

	if strings.Contains(host, ":") {
		if _, _, err := net.SplitHostPort(host); err != nil {
			return Peer{}, fmt.Errorf("%w: %q: %s", ErrInvalidPeer, address, err)
		}
	}

	return New(host), nil
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// =============================================================================

// PeerStatus represents information about the status
// of any given peer.
type PeerStatus struct {
	LatestBlockHash  string `json:"latest_block_hash"`
	LatestBlockIndex uint64 `json:"latest_block_index"`
	Length           int    `json:"length"`
	KnownPeers       []Peer `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set. It reports false if the peer was already
// known.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Len returns the number of known peers.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns the known peers, excluding the specified host, sorted by host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Host < peers[j].Host
	})

	return peers
}
