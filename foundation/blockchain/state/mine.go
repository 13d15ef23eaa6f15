package state

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ErrNoMiner is returned when a block is requested without an identity
// to reward.
var ErrNoMiner = errors.New("no miner identity to reward")

// errStaleProof is returned when the tip changed while a proof was being
// searched for and the proof no longer solves the tip's puzzle.
var errStaleProof = errors.New("proof does not solve the current tip")

// =============================================================================

// Mine asks the worker to mine the next block for the node's miner account.
// Without a worker the block is mined on the calling goroutine.
func (s *State) Mine(ctx context.Context) (database.Block, error) {
	if s.Worker != nil {
		return s.Worker.Mine(ctx)
	}

	return s.MineNewBlock(ctx, s.minerAccount)
}

// MineNewBlock searches for the proof that extends the current tip and then
// commits a block holding every pending transaction plus the miner's reward.
// The lock is only held to read the tip and to commit, never while solving.
// If the tip changed underneath the search and the proof no longer applies,
// the search starts over against the new tip.
func (s *State) MineNewBlock(ctx context.Context, miner string) (database.Block, error) {
	if miner == "" {
		return database.Block{}, ErrNoMiner
	}

	for {
		tip := s.RetrieveLatestBlock()

		s.evHandler("state: MineNewBlock: MINING: perform POW: tip[%d]", tip.Index)

		proof, err := database.SolveProof(ctx, s.genesis.Difficulty, tip.Proof, s.evHandler)
		if err != nil {
			return database.Block{}, err
		}

		block, err := s.commitBlock(proof, miner)
		if err != nil {
			if errors.Is(err, errStaleProof) {
				s.evHandler("state: MineNewBlock: MINING: tip changed, restarting")
				continue
			}
			return database.Block{}, err
		}

		s.evHandler("viewer: block mined: blk[%d]: hash[%s]: trans[%d]", block.Index, block.Hash(), len(block.Transactions))

		return block, nil
	}
}

// commitBlock builds the block from the pending pool and appends it in a
// single critical section. Only the transactions placed in the block are
// removed from the pool.
func (s *State) commitBlock(proof uint64, miner string) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tip := s.db.LatestBlock()
	if !database.ValidProof(s.genesis.Difficulty, tip.Proof, proof) {
		return database.Block{}, errStaleProof
	}

	pending := s.mempool.Copy()
	trans := append(pending, database.NewRewardTx(miner, s.genesis.MiningReward))

	block := database.NewBlock(tip, trans, proof, time.Now())

	s.evHandler("state: commitBlock: write block: blk[%d]", block.Index)

	if err := s.db.Append(block); err != nil {
		return database.Block{}, err
	}

	s.mempool.Drop(len(pending))

	return block, nil
}
