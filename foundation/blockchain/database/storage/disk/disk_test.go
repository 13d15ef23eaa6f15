package disk_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/database/storage/disk"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Storage(t *testing.T) {
	t.Log("Given the need to store blocks.")
	{
		store, err := disk.New(filepath.Join(t.TempDir(), "blocks"))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the storage: %v", failed, err)
		}
		defer store.Close()
		t.Logf("\t%s\tShould be able to construct the storage.", success)

		now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		gen := database.NewGenesisBlock(now)
		b2 := database.NewBlock(gen, []database.Tx{{Sender: "alice", Recipient: "bob", Amount: 5}, database.NewRewardTx("miner", 1)}, 52838, now.Add(time.Second))

		t.Logf("\tTest 0:\tWhen the storage is empty.")
		{
			iter := store.ForEach()
			if _, err := iter.Next(); err == nil || !iter.Done() {
				t.Fatalf("\t%s\tTest 0:\tShould be at the end of the chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be at the end of the chain.", success)
		}

		t.Logf("\tTest 1:\tWhen writing blocks.")
		{
			for _, block := range []database.Block{gen, b2} {
				if err := store.Write(block); err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould be able to write blk[%d]: %v", failed, block.Index, err)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould be able to write the blocks.", success)

			got, err := store.GetBlock(2)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to read the block: %v", failed, err)
			}
			if got.Hash() != b2.Hash() {
				t.Fatalf("\t%s\tTest 1:\tShould read back the same block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould read back the same block.", success)

			if _, err := store.GetBlock(3); !errors.Is(err, database.ErrNotFound) {
				t.Fatalf("\t%s\tTest 1:\tShould not find a missing block, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould not find a missing block.", success)
		}

		t.Logf("\tTest 2:\tWhen iterating the blocks.")
		{
			var blocks []database.Block
			iter := store.ForEach()
			for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
				if err != nil {
					t.Fatalf("\t%s\tTest 2:\tShould be able to iterate: %v", failed, err)
				}
				blocks = append(blocks, block)
			}

			if len(blocks) != 2 {
				t.Fatalf("\t%s\tTest 2:\tShould get 2 blocks, got %d.", failed, len(blocks))
			}
			if !database.IsValidChain(blocks, 4) {
				t.Fatalf("\t%s\tTest 2:\tShould get the blocks in chain order.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould get the blocks in chain order.", success)
		}

		t.Logf("\tTest 3:\tWhen resetting the storage.")
		{
			if err := store.Reset(); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to reset: %v", failed, err)
			}

			if _, err := store.GetBlock(1); !errors.Is(err, database.ErrNotFound) {
				t.Fatalf("\t%s\tTest 3:\tShould have no blocks, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould have no blocks.", success)

			if err := store.Write(gen); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould be able to write after a reset: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould be able to write after a reset.", success)
		}
	}
}
