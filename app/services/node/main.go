package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/database/storage/disk"
	"github.com/ardanlabs/ledger/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/ledger/foundation/blockchain/database/storage/pebbledb"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/logger"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
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

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10m"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
			CorsOrigin      string        `conf:"default:*"`
		}
		State struct {
			MinerName       string        `conf:"default:miner1"`
			Storage         string        `conf:"default:disk,help:memory|disk|pebble"`
			DBPath          string        `conf:"default:zblock/blocks/"`
			GenesisPath     string        `conf:"default:zblock/genesis.yaml"`
			KnownPeers      []string      `conf:"default:0.0.0.0:9080;0.0.0.0:9180"`
			ResolveInterval time.Duration `conf:"default:10s"`
			FetchTimeout    time.Duration `conf:"default:5s"`
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger node",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for account addresses.
	// The names come from the file names in the accounts folder.
	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	// Logging the accounts for documentation in the logs.
	for account, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "account", account)
	}

	// =========================================================================
	// Blockchain Support

	gen, err := genesis.Load(cfg.State.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis: %w", err)
	}
	log.Infow("startup", "status", "genesis", "chain", gen.ChainName, "difficulty", gen.Difficulty, "reward", gen.MiningReward)

	minerAccount, err := minerIdentity(cfg.NameService.Folder, cfg.State.MinerName)
	if err != nil {
		return err
	}
	log.Infow("startup", "status", "miner", "name", cfg.State.MinerName, "account", minerAccount)

	storage, err := openStorage(cfg.State.Storage, cfg.State.DBPath)
	if err != nil {
		return err
	}

	// A peer set is a collection of known nodes in the network so chains
	// can be compared during consensus.
	peerSet := peer.NewPeerSet()
	for _, host := range cfg.State.KnownPeers {
		pr, err := peer.ParseAddress(host)
		if err != nil {
			return fmt.Errorf("known peer %q: %w", host, err)
		}
		peerSet.Add(pr)
	}

	// The blockchain packages accept a function of this signature to allow the
	// application to log. Messages prefixed with viewer: are also sent to any
	// websocket client that is connected through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		if strings.HasPrefix(s, "viewer:") {
			evts.Send(s)
		}
	}

	// The state value represents the ledger node and manages the chain and
	// the pending pool.
	state, err := state.New(state.Config{
		MinerAccount: minerAccount,
		Host:         cfg.Web.PrivateHost,
		Genesis:      gen,
		Storage:      storage,
		KnownPeers:   peerSet,
		FetchTimeout: cfg.State.FetchTimeout,
		EvHandler:    ev,
	})
	if err != nil {
		storage.Close()
		return err
	}
	defer state.Shutdown()

	// The worker package runs mining and conflict resolution. The worker
	// registers itself with the state.
	worker.Run(state, cfg.State.ResolveInterval, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, state)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	muxCfg := handlers.MuxConfig{
		Shutdown:   shutdown,
		Log:        log,
		State:      state,
		NS:         ns,
		Evts:       evts,
		CorsOrigin: cfg.Web.CorsOrigin,
	}

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      handlers.PublicMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      handlers.PrivateMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// minerIdentity returns the account of the miner's key file when one exists
// in the accounts folder, otherwise a random identity for this run.
func minerIdentity(folder string, minerName string) (string, error) {
	path := filepath.Join(folder, minerName+".ecdsa")

	privateKey, err := crypto.LoadECDSA(path)
	switch {
	case err == nil:
		return database.PublicKeyToAccount(privateKey.PublicKey), nil

	case errors.Is(err, fs.ErrNotExist):
		return strings.ReplaceAll(uuid.NewString(), "-", ""), nil

	default:
		return "", fmt.Errorf("unable to load private key for node: %w", err)
	}
}

// openStorage constructs the storage backend named in the configuration.
func openStorage(kind string, dbPath string) (database.Storage, error) {
	switch kind {
	case "memory":
		return memory.New()

	case "disk":
		return disk.New(dbPath)

	case "pebble":
		return pebbledb.New(dbPath)
	}

	return nil, fmt.Errorf("unknown storage %q, expecting memory, disk or pebble", kind)
}
