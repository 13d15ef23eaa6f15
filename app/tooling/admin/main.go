// This program performs administrative tasks against a node's storage while
// the node is not running.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/app/tooling/admin/commands"
	"github.com/ardanlabs/ledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args    conf.Args
		Storage string `conf:"default:disk,help:memory|disk|pebble"`
		DBPath  string `conf:"default:zblock/blocks/"`
		Genesis string `conf:"default:zblock/genesis.yaml"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "ledger administration",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	return processCommands(cfg.Args, log, commands.Config{
		Storage:     cfg.Storage,
		DBPath:      cfg.DBPath,
		GenesisPath: cfg.Genesis,
	})
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, log *zap.SugaredLogger, cfg commands.Config) error {
	switch args.Num(0) {
	case "validate":
		if err := commands.Validate(os.Stdout, log, cfg); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}

	case "blocks":
		if err := commands.Blocks(os.Stdout, cfg, args.Num(1)); err != nil {
			return fmt.Errorf("listing blocks: %w", err)
		}

	case "genesis":
		if err := commands.Genesis(os.Stdout, cfg); err != nil {
			return fmt.Errorf("writing genesis: %w", err)
		}

	default:
		fmt.Println("validate: check every block in storage links and carries a valid proof")
		fmt.Println("blocks [account]: print the stored blocks, optionally only those touching account")
		fmt.Println("genesis: write the default genesis file if none exists")
		fmt.Println("provide a command to get more help.")
		return commands.ErrHelp
	}

	return nil
}
