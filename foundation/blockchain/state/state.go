// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// defaultFetchTimeout bounds a single peer chain request when no timeout
// is configured.
const defaultFetchTimeout = 5 * time.Second

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and conflict resolution in the
// background.
type Worker interface {
	Shutdown()
	Mine(ctx context.Context) (database.Block, error)
	SignalResolve()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	MinerAccount string
	Host         string
	Genesis      genesis.Genesis
	Storage      database.Storage
	KnownPeers   *peer.PeerSet
	Fetcher      ChainFetcher
	FetchTimeout time.Duration
	EvHandler    EventHandler
}

// State manages the blockchain database and the pending pool. The mutex
// serializes every mutation of the chain and the pool.
type State struct {
	mu sync.RWMutex

	minerAccount string
	host         string
	evHandler    EventHandler
	fetchTimeout time.Duration

	knownPeers *peer.PeerSet
	genesis    genesis.Genesis
	mempool    *mempool.Mempool
	db         *database.Database
	fetcher    ChainFetcher

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	// Access the storage for the blockchain. This loads and validates
	// every block already persisted or creates the genesis block.
	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		minerAccount: cfg.MinerAccount,
		host:         cfg.Host,
		evHandler:    ev,
		fetchTimeout: fetchTimeout,

		knownPeers: knownPeers,
		genesis:    cfg.Genesis,
		mempool:    mempool.New(),
		db:         db,
		fetcher:    fetcher,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	// Make sure the database is properly closed.
	return s.db.Close()
}
