package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// SubmitTransaction places a transaction in the pending pool and returns the
// index of the block it is expected to be included in. The index is a
// receipt, not a guarantee: a chain replacement can change the actual
// inclusion block.
func (s *State) SubmitTransaction(tx database.Tx) (uint64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.mempool.Add(tx)
	index := s.db.LatestBlock().Index + 1

	s.evHandler("viewer: tx pending: tx[%s]: pool[%d]: blk[%d]", tx, n, index)

	return index, nil
}
