// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/database/storage/disk"
	"github.com/ardanlabs/ledger/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/ledger/foundation/blockchain/database/storage/pebbledb"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"go.uber.org/zap"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// Config holds the location of the node's data.
type Config struct {
	Storage     string
	DBPath      string
	GenesisPath string
}

// Validate reads every block from storage and runs the chain validation
// the node performs at startup.
func Validate(w io.Writer, log *zap.SugaredLogger, cfg Config) error {
	gen, err := genesis.Load(cfg.GenesisPath)
	if err != nil {
		return err
	}

	chain, err := readChain(cfg)
	if err != nil {
		return err
	}

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...))
	}

	if err := database.ValidateChain(chain, gen.Difficulty, ev); err != nil {
		return err
	}

	fmt.Fprintf(w, "chain is valid: blocks[%d] tip[%s]\n", len(chain), chain[len(chain)-1].Hash())
	return nil
}

// Blocks prints the stored blocks. When an account is provided only the
// blocks holding a transaction sent or received by it are printed.
func Blocks(w io.Writer, cfg Config, account string) error {
	chain, err := readChain(cfg)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	for _, block := range chain {
		if account != "" && !touches(block, account) {
			continue
		}

		out := struct {
			Hash string `json:"hash"`
			database.Block
		}{
			Hash:  block.Hash(),
			Block: block,
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}

	return nil
}

// Genesis writes the default parameters to the genesis file. An existing
// file is left alone.
func Genesis(w io.Writer, cfg Config) error {
	if _, err := os.Stat(cfg.GenesisPath); err == nil {
		return fmt.Errorf("genesis file %s already exists", cfg.GenesisPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := genesis.Save(cfg.GenesisPath, genesis.Default()); err != nil {
		return err
	}

	fmt.Fprintf(w, "genesis written to %s\n", cfg.GenesisPath)
	return nil
}

// =============================================================================

// readChain opens the configured storage and reads every block in order.
func readChain(cfg Config) ([]database.Block, error) {
	storage, err := open(cfg)
	if err != nil {
		return nil, err
	}
	defer storage.Close()

	var chain []database.Block
	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		chain = append(chain, block)
	}

	if len(chain) == 0 {
		return nil, database.ErrChainEmpty
	}

	return chain, nil
}

func open(cfg Config) (database.Storage, error) {
	switch cfg.Storage {
	case "memory":
		return memory.New()

	case "disk":
		return disk.New(cfg.DBPath)

	case "pebble":
		return pebbledb.New(cfg.DBPath)
	}

	return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}

func touches(block database.Block, account string) bool {
	for _, tx := range block.Transactions {
		if tx.Sender == account || tx.Recipient == account {
			return true
		}
	}
	return false
}
