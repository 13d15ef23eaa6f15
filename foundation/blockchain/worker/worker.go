// Package worker implements mining and conflict resolution for the
// blockchain on background goroutines.
package worker

import (
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// =============================================================================

// Worker manages the POW and consensus workflows for the blockchain.
type Worker struct {
	state       *state.State
	wg          sync.WaitGroup
	ticker      *time.Ticker
	shut        chan struct{}
	mineRequest chan mineRequest
	resolve     chan bool
	evHandler   state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. A zero peerInterval turns off the
// periodic peer checks, conflicts are then only resolved on request.
func Run(st *state.State, peerInterval time.Duration, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	w := Worker{
		state:       st,
		shut:        make(chan struct{}),
		mineRequest: make(chan mineRequest),
		resolve:     make(chan bool, 1),
		evHandler:   evHandler,
	}

	if peerInterval > 0 {
		w.ticker = time.NewTicker(peerInterval)
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.Sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.resolveOperations,
	}
	if w.ticker != nil {
		operations = append(operations, w.peerOperations)
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for range g {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work. Any mining in progress
// is cancelled.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalResolve starts a conflict resolution. If there is already a signal
// pending in the channel, just return since a resolution will start.
func (w *Worker) SignalResolve() {
	select {
	case w.resolve <- true:
		w.evHandler("worker: SignalResolve: resolve signaled")
	default:
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
