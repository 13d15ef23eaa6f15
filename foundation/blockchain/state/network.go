package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

const baseURL = "http://%s/v1/node"

// ChainFetcher represents the behavior required to retrieve the chain held
// by a peer.
type ChainFetcher interface {
	FetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error)
	FetchStatus(ctx context.Context, pr peer.Peer) (peer.PeerStatus, error)
}

// =============================================================================

// NetRequestPeerChains asks every peer for its chain concurrently. A peer
// that fails to answer in time or returns an error is logged and left out
// of the result so it can't hold up the others.
func (s *State) NetRequestPeerChains(ctx context.Context, peers []peer.Peer) map[string][]database.Block {
	s.evHandler("state: NetRequestPeerChains: started: peers[%d]", len(peers))
	defer s.evHandler("state: NetRequestPeerChains: completed")

	var mu sync.Mutex
	peerChains := make(map[string][]database.Block)

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for _, pr := range peers {
		go func(pr peer.Peer) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()

			chain, err := s.fetcher.FetchChain(ctx, pr)
			if err != nil {
				s.evHandler("state: NetRequestPeerChains: peer[%s]: WARNING: %s", pr.Host, err)
				return
			}

			s.evHandler("state: NetRequestPeerChains: peer[%s]: length[%d]", pr.Host, len(chain))

			mu.Lock()
			defer mu.Unlock()
			peerChains[pr.Host] = chain
		}(pr)
	}

	wg.Wait()

	return peerChains
}

// NetRequestPeerStatus asks the peer for its latest block and peer list.
func (s *State) NetRequestPeerStatus(ctx context.Context, pr peer.Peer) (peer.PeerStatus, error) {
	s.evHandler("state: NetRequestPeerStatus: started: %s", pr.Host)
	defer s.evHandler("state: NetRequestPeerStatus: completed: %s", pr.Host)

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	ps, err := s.fetcher.FetchStatus(ctx, pr)
	if err != nil {
		return peer.PeerStatus{}, err
	}

	s.evHandler("state: NetRequestPeerStatus: peer-node[%s]: latest-blkidx[%d]: length[%d]", pr.Host, ps.LatestBlockIndex, ps.Length)

	return ps, nil
}

// =============================================================================

// HTTPFetcher retrieves peer information over the peer's private API.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher constructs a fetcher using the default http client.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: http.DefaultClient}
}

// FetchChain implements the ChainFetcher interface. The length a peer
// reports is ignored, only the blocks it sends count.
func (f *HTTPFetcher) FetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, pr.Host))

	var data database.ChainData
	if err := send(ctx, f.client, http.MethodGet, url, nil, &data); err != nil {
		return nil, err
	}

	if len(data.Chain) == 0 {
		return nil, fmt.Errorf("%s: %w", pr.Host, database.ErrChainEmpty)
	}

	return data.Chain, nil
}

// FetchStatus implements the ChainFetcher interface.
func (f *HTTPFetcher) FetchStatus(ctx context.Context, pr peer.Peer) (peer.PeerStatus, error) {
	url := fmt.Sprintf("%s/status", fmt.Sprintf(baseURL, pr.Host))

	var ps peer.PeerStatus
	if err := send(ctx, f.client, http.MethodGet, url, nil, &ps); err != nil {
		return peer.PeerStatus{}, err
	}

	return ps, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func send(ctx context.Context, client *http.Client, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader

	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}

	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
