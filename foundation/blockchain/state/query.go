package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// QueryPendingLength returns the current length of the pending pool.
func (s *State) QueryPendingLength() int {
	return s.mempool.Count()
}

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Length()
}

// QueryBlock returns the block at the specified index.
func (s *State) QueryBlock(index uint64) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index == QueryLatest {
		return s.db.LatestBlock(), nil
	}

	return s.db.GetBlock(index)
}

// QueryBlocksByAccount returns the blocks holding a transaction sent or
// received by the identity. If the identity is empty, all blocks are
// returned.
func (s *State) QueryBlocksByAccount(identity string) []database.Block {
	chain := s.RetrieveChain()

	if identity == "" {
		return chain
	}

	var out []database.Block
	for _, block := range chain {
		for _, tx := range block.Transactions {
			if tx.Sender == identity || tx.Recipient == identity {
				out = append(out, block)
				break
			}
		}
	}

	return out
}
