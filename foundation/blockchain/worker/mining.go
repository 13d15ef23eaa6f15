package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrShutdown is returned when a request reaches a worker that is shutting
// down.
var ErrShutdown = errors.New("worker is shutting down")

// mineRequest carries a request to mine a block to the mining G.
type mineRequest struct {
	ctx    context.Context
	result chan mineResult
}

// mineResult is the outcome of a mining operation.
type mineResult struct {
	block database.Block
	err   error
}

// =============================================================================

// Mine asks the mining G to mine the next block and waits for the result.
// Requests are served one at a time in the order they arrive.
func (w *Worker) Mine(ctx context.Context) (database.Block, error) {
	req := mineRequest{
		ctx:    ctx,
		result: make(chan mineResult, 1),
	}

	select {
	case w.mineRequest <- req:
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	case <-w.shut:
		return database.Block{}, ErrShutdown
	}

	res := <-req.result
	return res.block, res.err
}

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case req := <-w.mineRequest:
			if w.isShutdown() {
				req.result <- mineResult{err: ErrShutdown}
				continue
			}
			req.result <- w.runMiningOperation(req.ctx)

		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines a block for the node's miner account. The search
// stops if the requester goes away or the worker is shut down.
func (w *Worker) runMiningOperation(reqCtx context.Context) mineResult {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Create a context so mining can be cancelled by a shutdown.
	ctx, cancel := context.WithCancel(reqCtx)
	defer cancel()

	go func() {
		select {
		case <-w.shut:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	t := time.Now()
	block, err := w.state.MineNewBlock(ctx, w.state.RetrieveMinerAccount())
	duration := time.Since(t)

	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

	if err != nil {
		switch {
		case ctx.Err() != nil && w.isShutdown():
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
			return mineResult{err: ErrShutdown}
		case ctx.Err() != nil:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requester gone")
		default:
			w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		}
		return mineResult{err: err}
	}

	return mineResult{block: block}
}
