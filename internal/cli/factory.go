package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/strand"
	"github.com/aretw0/strand/internal/logging"
	"github.com/aretw0/strand/pkg/adapters/file"
	"github.com/aretw0/strand/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/strand/pkg/adapters/redis"
	"github.com/aretw0/strand/pkg/adapters/sqlite"
	"github.com/aretw0/strand/pkg/domain"
	"github.com/aretw0/strand/pkg/persistence/middleware"
	"github.com/aretw0/strand/pkg/ports"
	"github.com/aretw0/strand/pkg/session"
	backend "github.com/redis/go-redis/v9"
)

// Options carries the global CLI flags.
type Options struct {
	ConfigPath string
	Debug      bool
	// Store overrides the configured backend when set.
	Store string
	// Library overrides the configured parts library path when set.
	Library string
}

// Setup loads the configuration and applies flag overrides.
func Setup(opts Options) (Config, *slog.Logger, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return cfg, nil, err
	}
	if opts.Store != "" {
		cfg.Store.Backend = opts.Store
	}
	if opts.Library != "" {
		cfg.Library = opts.Library
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.NewWithWriter(os.Stderr, level, logging.Format(cfg.Log.Format)), nil
}

// OpenStore builds the document store selected by cfg, sealed when an
// encryption key is configured. The returned closer releases backend
// connections and is never nil.
func OpenStore(cfg Config) (ports.DocumentStore, ports.DistributedLocker, func() error, error) {
	store, locker, closer, err := openBackend(cfg)
	if err != nil {
		return nil, nil, closer, err
	}
	enc, err := cfg.Store.encryption()
	if err != nil {
		_ = closer()
		return nil, nil, func() error { return nil }, err
	}
	if enc != nil {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(*enc))
	}
	return store, locker, closer, nil
}

func openBackend(cfg Config) (ports.DocumentStore, ports.DistributedLocker, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case BackendMemory:
		return memory.NewStore(), nil, noop, nil
	case BackendFile:
		return file.New(cfg.Store.Path), nil, noop, nil
	case BackendSQLite:
		path := cfg.Store.Path
		if path == "" {
			path = filepath.Join(".strand", "strand.db")
		}
		store, err := sqlite.New(path)
		if err != nil {
			return nil, nil, noop, err
		}
		return store, nil, store.Close, nil
	case BackendRedis:
		rc := cfg.Store.Redis
		ttl, err := rc.ttl()
		if err != nil {
			return nil, nil, noop, err
		}
		addr := rc.Addr
		if addr == "" {
			addr = "localhost:6379"
		}
		client := backend.NewClient(&backend.Options{Addr: addr, Password: rc.Password, DB: rc.DB})

		storeOpts := []redisAdapter.Option{redisAdapter.WithTTL(ttl)}
		lockPrefix := "strand:"
		if rc.Prefix != "" {
			storeOpts = append(storeOpts, redisAdapter.WithPrefix(rc.Prefix))
			lockPrefix = rc.Prefix
		}
		store := redisAdapter.NewFromClient(client, storeOpts...)
		return store, redisAdapter.NewLocker(client, lockPrefix), store.Close, nil
	}
	return nil, nil, noop, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// NewManager opens the configured store behind a session manager.
func NewManager(cfg Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	store, locker, closer, err := OpenStore(cfg)
	if err != nil {
		return nil, closer, err
	}
	opts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}
	return session.NewManager(store, opts...), closer, nil
}

// NewEngine creates an engine for cfg with the given hooks.
func NewEngine(cfg Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*strand.Engine, error) {
	ns, err := cfg.Namespace()
	if err != nil {
		return nil, err
	}
	opts := []strand.Option{
		strand.WithNamespace(ns),
		strand.WithLogger(logger),
		strand.WithLifecycleHooks(hooks),
	}
	if cfg.Library != "" {
		opts = append(opts, strand.WithLibraryPath(cfg.Library))
	}
	eng, err := strand.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return eng, nil
}
