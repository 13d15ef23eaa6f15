package commands_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/app/tooling/admin/commands"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/database/storage/disk"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Validate(t *testing.T) {
	t.Log("Given the need to inspect a node's storage offline.")
	{
		dir := t.TempDir()
		cfg := commands.Config{
			Storage:     "disk",
			DBPath:      filepath.Join(dir, "blocks"),
			GenesisPath: filepath.Join(dir, "genesis.yaml"),
		}

		t.Logf("\tTest 0:\tWhen the storage is empty.")
		{
			err := commands.Validate(&bytes.Buffer{}, zap.NewNop().Sugar(), cfg)
			if !errors.Is(err, database.ErrChainEmpty) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrChainEmpty, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrChainEmpty.", success)
		}

		t.Logf("\tTest 1:\tWhen the genesis file is written.")
		{
			var out bytes.Buffer
			if err := commands.Genesis(&out, cfg); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to write genesis: %v", failed, err)
			}
			if err := commands.Genesis(&out, cfg); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould refuse to overwrite genesis.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould write genesis once.", success)
		}

		now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		gen := database.NewGenesisBlock(now)
		next := database.NewBlock(gen, []database.Tx{{Sender: "alice", Recipient: "bob", Amount: 5}, database.NewRewardTx("miner", 1)}, 52838, now.Add(time.Second))

		storage, err := disk.New(cfg.DBPath)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to open storage: %v", failed, err)
		}
		for _, block := range []database.Block{gen, next} {
			if err := storage.Write(block); err != nil {
				t.Fatalf("\t%s\tShould be able to write blocks: %v", failed, err)
			}
		}
		storage.Close()

		t.Logf("\tTest 2:\tWhen the storage holds a valid chain.")
		{
			var out bytes.Buffer
			if err := commands.Validate(&out, zap.NewNop().Sugar(), cfg); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould validate: %v", failed, err)
			}
			if !strings.Contains(out.String(), next.Hash()) {
				t.Fatalf("\t%s\tTest 2:\tShould report the tip, got %q.", failed, out.String())
			}
			t.Logf("\t%s\tTest 2:\tShould validate and report the tip.", success)
		}

		t.Logf("\tTest 3:\tWhen listing blocks for an account.")
		{
			var out bytes.Buffer
			if err := commands.Blocks(&out, cfg, "bob"); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould list blocks: %v", failed, err)
			}
			if strings.Contains(out.String(), gen.Hash()) || !strings.Contains(out.String(), next.Hash()) {
				t.Fatalf("\t%s\tTest 3:\tShould list only block 2, got %q.", failed, out.String())
			}
			t.Logf("\t%s\tTest 3:\tShould list only block 2.", success)
		}
	}
}
