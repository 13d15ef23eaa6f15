package worker

import "context"

// peerOperations periodically checks on the known peers.
func (w *Worker) peerOperations() {
	w.evHandler("worker: peerOperations: G started")
	defer w.evHandler("worker: peerOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runPeersOperation()
			}
		case <-w.shut:
			w.evHandler("worker: peerOperations: received shut signal")
			return
		}
	}
}

// runPeersOperation asks every known peer for its status. When any peer
// reports a chain longer than ours, a conflict resolution is signaled.
// Unreachable peers stay registered, the peer set only changes through
// registration.
func (w *Worker) runPeersOperation() {
	w.evHandler("worker: runPeersOperation: started")
	defer w.evHandler("worker: runPeersOperation: completed")

	length := w.state.QueryChainLength()

	for _, pr := range w.state.RetrieveKnownPeers() {
		ps, err := w.state.NetRequestPeerStatus(context.Background(), pr)
		if err != nil {
			w.evHandler("worker: runPeersOperation: queryPeerStatus: %s: WARNING: %s", pr.Host, err)
			continue
		}

		if ps.Length > length {
			w.evHandler("worker: runPeersOperation: %s: length[%d] > local[%d]", pr.Host, ps.Length, length)
			w.SignalResolve()
			return
		}
	}
}
