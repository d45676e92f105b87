package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"go.uber.org/zap"

	"go-sw-cache/internal/cache"
	"go-sw-cache/internal/cache/l1"
	"go-sw-cache/internal/cache/l2"
	"go-sw-cache/internal/cache/multi"
	"go-sw-cache/internal/cache/noop"
	"go-sw-cache/internal/cache/sqlite"
	"go-sw-cache/internal/cache_rules"
	"go-sw-cache/internal/config"
	"go-sw-cache/internal/httpserver"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/lifecycle"
	"go-sw-cache/internal/router"
	"go-sw-cache/internal/telemetry"
	"go-sw-cache/internal/transport"
)

const serviceName = "go-sw-cache"

// CompositionRoot holds all application dependencies and wires them in
// dependency order. Everything it opens is released by Cleanup.
type CompositionRoot struct {
	Env       *config.Env
	Config    *config.Config
	Logger    *zap.Logger
	AppOrigin *url.URL

	Classifier interfaces.Classifier
	Transport  interfaces.Transport

	// Storage layers
	L1Cache      interfaces.StoreProvider
	BackendCache interfaces.StoreProvider
	Storage      *cache.Storage

	Router     *router.Router
	HTTPServer *httpserver.Server

	shutdownTelemetry func(context.Context) error
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger
// 2. Environment and configuration
// 3. Routing rules
// 4. Telemetry
// 5. Storage layers (L1, backend)
// 6. Transport and router
// 7. HTTP server
func NewCompositionRoot(ctx context.Context) (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.loadRoutingRules(); err != nil {
		return nil, fmt.Errorf("failed to load routing rules: %w", err)
	}

	if err := root.initTelemetry(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	if err := root.initStorage(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := root.initRouter(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	root.initHTTPServer()

	return root, nil
}

func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	setRedisLogger(logger)
	return nil
}

// loadConfig reads the YAML file named by the environment, then applies
// environment overrides on top of it
func (r *CompositionRoot) loadConfig() error {
	env, err := config.ParseEnv()
	if err != nil {
		return err
	}
	r.Env = env

	cfg, err := config.LoadConfig(env.ConfigFile, r.Logger)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(env)
	if err := cfg.Validate(); err != nil {
		return err
	}

	appOrigin, err := url.Parse(cfg.AppOrigin)
	if err != nil {
		return fmt.Errorf("invalid app_origin: %w", err)
	}

	r.Config = cfg
	r.AppOrigin = appOrigin
	return nil
}

// loadRoutingRules falls back to the built-in rules when no rules file exists
func (r *CompositionRoot) loadRoutingRules() error {
	rulesPath := r.Env.RulesFile

	var rules *cache_rules.RulesConfig
	if _, err := os.Stat(rulesPath); errors.Is(err, os.ErrNotExist) {
		r.Logger.Info("Routing rules file not found, using defaults", zap.String("path", rulesPath))
		rules = cache_rules.NewRulesConfig(cache_rules.DefaultRoutingRules(), r.Logger)
	} else {
		rules, err = cache_rules.LoadRoutingRules(rulesPath, r.Logger)
		if err != nil {
			return err
		}
	}

	r.Classifier = cache_rules.NewClassifier(r.Logger, rules)
	return nil
}

func (r *CompositionRoot) initTelemetry(ctx context.Context) error {
	shutdown, err := telemetry.Setup(ctx, serviceName, r.Env.OTelEndpoint, r.Env.OTelEnabled, r.Logger)
	if err != nil {
		return err
	}
	r.shutdownTelemetry = shutdown
	return nil
}

// initStorage builds the layered generation store: the in-memory layer in
// front of the configured durable backend
func (r *CompositionRoot) initStorage() error {
	if err := r.initL1Cache(); err != nil {
		return fmt.Errorf("failed to initialize L1 cache: %w", err)
	}

	if err := r.initBackendCache(); err != nil {
		return fmt.Errorf("failed to initialize %s backend: %w", r.Config.Storage.Backend, err)
	}

	var provider interfaces.StoreProvider = multi.NewMultiCache([]interfaces.StoreProvider{r.L1Cache, r.BackendCache}, r.Logger)
	if _, ok := r.BackendCache.(*noop.NoOpCache); ok {
		// Without a durable layer, L1 is the store and its write errors count
		provider = r.L1Cache
	}
	r.Storage = cache.NewStorage(provider, cache.NewKeyBuilder(), r.Logger)
	return nil
}

func (r *CompositionRoot) initL1Cache() error {
	cfg := r.Config.Storage.L1
	if !cfg.Enabled {
		r.L1Cache = noop.NewNoOpCache()
		r.Logger.Info("BigCache (L1) disabled")
		return nil
	}

	l1Cache, err := l1.NewBigCache(cfg, r.Logger)
	if err != nil {
		return err
	}
	r.L1Cache = l1Cache
	r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", cfg.Size))
	return nil
}

func (r *CompositionRoot) initBackendCache() error {
	switch r.Config.Storage.Backend {
	case config.BackendSQLite:
		store, err := sqlite.Open(r.Config.Storage.SQLite.Path, r.Logger)
		if err != nil {
			return err
		}
		r.BackendCache = store
		r.Logger.Info("SQLite backend initialized", zap.String("path", r.Config.Storage.SQLite.Path))

	case config.BackendKeyDB:
		keydbURL := GetKeyDBURL(r.Env, r.Logger)
		client, err := l2.NewRedisKeyDbClient(&r.Config.Storage.KeyDB, keydbURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to KeyDB, falling back to no backend",
				zap.String("keydb_url", redactURL(keydbURL)),
				zap.Error(err))
			r.BackendCache = noop.NewNoOpCache()
			return nil
		}
		r.BackendCache = l2.NewKeyDBCache(&r.Config.Storage.KeyDB, client, r.Logger)
		r.Logger.Info("KeyDB backend initialized", zap.String("keydb_url", redactURL(keydbURL)))

	default:
		r.BackendCache = noop.NewNoOpCache()
		r.Logger.Info("Durable backend disabled")
	}
	return nil
}

func (r *CompositionRoot) initRouter() error {
	assets, err := lifecycle.ResolveAssets(r.Config.AppOrigin, r.Config.Precache.Static, r.Config.Precache.CDN)
	if err != nil {
		return err
	}

	r.Transport = transport.NewHTTPTransport(r.Config.Transport, r.Logger)
	r.Router = router.New(router.Options{
		Generation: r.Config.Generation,
		Assets:     assets,
		Storage:    r.Storage,
		Classifier: r.Classifier,
		Transport:  r.Transport,
		Logger:     r.Logger,
	})

	r.Logger.Info("Router initialized",
		zap.String("generation", r.Config.Generation),
		zap.Int("precache_assets", len(assets)))
	return nil
}

func (r *CompositionRoot) initHTTPServer() {
	r.HTTPServer = httpserver.NewServer(
		r.Router,
		r.Storage,
		r.AppOrigin,
		r.Config.Server,
		r.Config.Admin.JWTSecret,
		r.Logger,
	)
}

// Cleanup releases storage and telemetry. Listeners and detached writes are
// drained by the caller before this runs.
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if l1Cache, ok := r.L1Cache.(*l1.BigCache); ok {
		if err := l1Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L1 cache: %w", err))
		}
	}

	switch backend := r.BackendCache.(type) {
	case *sqlite.Store:
		if err := backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sqlite backend: %w", err))
		}
	case *l2.KeyDBCache:
		if err := backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close KeyDB backend: %w", err))
		}
	}

	if r.shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), r.Config.Server.ShutdownTimeout)
		if err := r.shutdownTelemetry(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown telemetry: %w", err))
		}
		cancel()
	}

	if r.Logger != nil {
		// Sync on stderr-backed loggers reports EINVAL on some platforms
		_ = r.Logger.Sync()
	}

	return errors.Join(errs...)
}
