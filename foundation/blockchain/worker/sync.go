package worker

import (
	"context"
)

// Sync brings this node up to date with the longest valid chain held by
// its known peers.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	if len(w.state.RetrieveKnownPeers()) == 0 {
		w.evHandler("worker: sync: no known peers")
		return
	}

	w.runResolveOperation(context.Background())
}

// resolveOperations handles resolving conflicts with peers.
func (w *Worker) resolveOperations() {
	w.evHandler("worker: resolveOperations: G started")
	defer w.evHandler("worker: resolveOperations: G completed")

	for {
		select {
		case <-w.resolve:
			if !w.isShutdown() {
				w.resolveUntilShutdown()
			}
		case <-w.shut:
			w.evHandler("worker: resolveOperations: received shut signal")
			return
		}
	}
}

// resolveUntilShutdown runs a resolution that is abandoned on shutdown.
func (w *Worker) resolveUntilShutdown() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-w.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	w.runResolveOperation(ctx)
}

// runResolveOperation applies the longest valid chain rule with the peers.
func (w *Worker) runResolveOperation(ctx context.Context) {
	w.evHandler("worker: runResolveOperation: started")
	defer w.evHandler("worker: runResolveOperation: completed")

	replaced, chain, err := w.state.ResolveConflicts(ctx)
	if err != nil {
		w.evHandler("worker: runResolveOperation: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runResolveOperation: replaced[%v]: length[%d]", replaced, len(chain))
}
