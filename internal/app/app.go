// Package app assembles the search engine from configuration. The server and
// the command line tool share it.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"estate/internal/config"
	"estate/internal/model"
	"estate/internal/repository"
	"estate/internal/service"
)

// App holds the wired engine and everything that must be closed on shutdown
type App struct {
	Store   repository.ListingStore
	Search  *service.SearchService
	Gate    *service.DisclosureGate
	ping    func(ctx context.Context) error
	closers []func()
}

// Options tweak how New wires the engine
type Options struct {
	// ForceMemoryStore serves the seed corpus whatever the configuration says
	ForceMemoryStore bool
	// DisableInterpreter skips the model-backed interpreter
	DisableInterpreter bool
}

// New wires the engine described by cfg
func New(cfg *config.Config, opts Options) (*App, error) {
	service.SetDebug(cfg.DebugEnabled())

	a := &App{}

	store, err := a.buildStore(cfg, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	heuristic := service.NewHeuristicExtractor(cfg.Heuristic.ExtraLocations...)

	var interpreter *service.Interpreter
	if cfg.Interpreter.Enabled && !opts.DisableInterpreter {
		interpreter, err = buildInterpreter(&cfg.Interpreter)
		if err != nil {
			a.Close()
			return nil, err
		}
	} else {
		log.Println("⚠️  Interpreter is disabled - queries use the heuristic extractor only")
		log.Println("   Set OPENAI_API_KEY environment variable to enable it")
	}

	defaultSort := model.SortCriterion(cfg.Search.DefaultSort)
	a.Search = service.NewSearchService(
		store,
		heuristic,
		interpreter,
		service.NewRanker(defaultSort),
		cfg.Search.DefaultLimit,
		cfg.Search.MaxLimit,
	)

	auditor, err := a.buildAuditor(&cfg.Audit)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Gate = service.NewDisclosureGate(store, a.buildLedger(&cfg.Redis), auditor)

	log.Println("✅ Services initialized")
	return a, nil
}

// Close releases resources in reverse order of creation
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Ping checks the backing database. The seed corpus is always reachable.
func (a *App) Ping(ctx context.Context) error {
	if a.ping == nil {
		return nil
	}
	return a.ping(ctx)
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *App) buildStore(cfg *config.Config, opts Options) (repository.ListingStore, error) {
	var store repository.ListingStore

	if opts.ForceMemoryStore || cfg.Search.UseMemoryStore {
		store = repository.NewMemoryStore(model.SeedListings())
		log.Println("✅ Using in-memory seed corpus")
	} else {
		dsn := cfg.GetPostgreSQLDSN()
		if cfg.PostgreSQL.MigrateOnStart {
			if err := repository.Migrate(cfg.PostgreSQL.Driver, dsn); err != nil {
				return nil, err
			}
		}

		repo, err := repository.NewPostgresRepository(
			cfg.PostgreSQL.Driver,
			dsn,
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { repo.Close() })
		a.ping = repo.Ping
		store = repo
		log.Printf("✅ Connected to PostgreSQL database (driver=%s)", cfg.PostgreSQL.Driver)
	}

	if !cfg.Cache.Enabled {
		return store, nil
	}

	var mc repository.MemcacheClient
	if len(cfg.Cache.MemcacheHosts) > 0 {
		mc = repository.NewMemcacheClient(cfg.Cache.MemcacheHosts...)
	}
	cached := repository.NewCachedStore(store, cfg.Cache.LocalMaxSize, cfg.Cache.LocalTTL, mc, cfg.Cache.MemcacheTTL)
	a.onClose(cached.Stop)
	log.Printf("✅ Listing snapshot cache enabled (ttl=%s, memcached=%t)", cfg.Cache.LocalTTL, mc != nil)
	return cached, nil
}

func buildInterpreter(cfg *config.InterpreterConfig) (*service.Interpreter, error) {
	var completer service.Completer
	switch cfg.Provider {
	case "", "http":
		completer = service.NewOpenAIClient(cfg)
	case "langchain":
		lc, err := service.NewLangChainCompleter(cfg)
		if err != nil {
			return nil, err
		}
		completer = lc
	default:
		return nil, fmt.Errorf("unsupported INTERPRETER_PROVIDER %q (want http or langchain)", cfg.Provider)
	}

	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), max(cfg.RateBurst, 1))
	}

	log.Printf("✅ Interpreter initialized")
	log.Printf("   - Provider: %s", cfg.Provider)
	log.Printf("   - API Base: %s", cfg.APIBase)
	log.Printf("   - Model: %s", cfg.Model)
	log.Printf("   - Timeout: %s", cfg.Timeout)
	log.Printf("   - Rate: %.2f/s (burst %d)", cfg.RatePerSec, cfg.RateBurst)
	return service.NewInterpreter(completer, limiter, cfg.Timeout), nil
}

func (a *App) buildLedger(cfg *config.RedisConfig) service.RevealLedger {
	if cfg.Addr == "" {
		ledger := service.NewMemoryLedger(10000, cfg.RevealTTL)
		a.onClose(ledger.Stop)
		return ledger
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	a.onClose(func() { rdb.Close() })
	log.Printf("✅ Reveal ledger backed by Redis at %s", cfg.Addr)
	return service.NewRedisLedger(rdb, cfg.RevealTTL)
}

func (a *App) buildAuditor(cfg *config.AuditConfig) (service.Auditor, error) {
	var sink service.AuditSink = service.LogSink{}
	if cfg.AMQPURL != "" {
		amqpSink, err := service.NewAMQPSink(cfg.AMQPURL, cfg.Queue)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { amqpSink.Close() })
		sink = amqpSink
	}

	auditor, err := service.NewAsyncAuditor(sink, cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit pool: %w", err)
	}
	a.onClose(auditor.Close)
	return auditor, nil
}
