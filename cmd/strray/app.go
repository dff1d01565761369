package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/strray/strray/internal/config"
	"github.com/strray/strray/internal/delegate"
	"github.com/strray/strray/internal/events"
	"github.com/strray/strray/internal/pipeline"
	"github.com/strray/strray/internal/registry"
	"github.com/strray/strray/internal/session"
	"github.com/strray/strray/internal/state"
	"github.com/strray/strray/internal/worker"
	"github.com/strray/strray/pkg/models"
)

// engine bundles the wired delegation stack for one CLI invocation.
type engine struct {
	cfg       *config.Config
	store     *state.DB
	registry  *registry.Registry
	coord     *session.Coordinator
	manager   *session.Manager
	emitter   *events.Emitter
	logger    *delegate.DebugLogger
	delegator *delegate.Delegator
}

// buildEngine loads configuration and wires the full delegation stack.
// The state store is best-effort: if the database cannot be opened the
// engine runs without persistence rather than failing.
func buildEngine() (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	e := &engine{
		cfg:     cfg,
		emitter: events.NewEmitter(256),
	}

	if db, err := state.Open(state.DefaultDBPath()); err != nil {
		log.Printf("[strray] WARNING: state store unavailable, running without persistence: %v", err)
	} else if err := db.Migrate(); err != nil {
		log.Printf("[strray] WARNING: state store migration failed, running without persistence: %v", err)
		db.Close()
	} else {
		e.store = db
	}

	catalog := registry.DefaultCatalog()
	if cfg.Workers.CatalogPath != "" {
		loaded, err := registry.LoadCatalog(cfg.Workers.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load worker catalog: %w", err)
		}
		catalog = loaded
	}
	e.registry = registry.NewWithCatalog(catalog)

	scfg := session.Config{TTL: cfg.Session.TTL}
	if e.store != nil {
		scfg.Store = e.store
	}
	e.coord = session.NewCoordinator(scfg)
	e.manager = session.NewManager(e.coord, session.ManagerConfig{
		TTL:          cfg.Session.TTL,
		IdleTimeout:  cfg.Session.IdleTimeout,
		ReapInterval: cfg.Session.ReapInterval,
		MaxSessions:  cfg.Session.MaxSessions,
		Events:       e.emitter,
	})

	logger, err := delegate.NewDebugLogger(cfg.Debug.LogPath)
	if err != nil {
		log.Printf("[strray] WARNING: debug log unavailable: %v", err)
		logger = delegate.NopLogger()
	}
	e.logger = logger

	e.delegator = delegate.New(delegate.Config{
		Registry:     e.registry,
		Tracker:      registry.NewActiveTracker(),
		Coordinator:  e.coord,
		Manager:      e.manager,
		Pipeline:     pipeline.Default(e.emitter),
		Workers:      buildWorkers(cfg, catalog),
		Events:       e.emitter,
		Logger:       logger,
		CallTimeout:  cfg.Delegation.CallTimeout,
		MaxRetries:   cfg.Delegation.MaxRetries,
		RetryBackoff: cfg.Delegation.RetryBackoff,
	})

	return e, nil
}

// buildWorkers constructs the executable worker set for the catalog.
// Without an API key (or with workers.simulated set) every worker runs
// simulated; the registry's name fallback covers the rest.
func buildWorkers(cfg *config.Config, catalog []models.WorkerCapability) worker.Provider {
	provider := worker.NewRegistry()
	if cfg.Workers.Simulated {
		return provider
	}
	if cfg.Anthropic.APIKey == "" && !cfg.Anthropic.UseAWSBedrock {
		return provider
	}

	for _, wc := range catalog {
		perspective := ""
		if len(wc.Expertise) > 0 {
			perspective = wc.Expertise[0]
		}
		w, err := worker.NewClaude(worker.ClaudeConfig{
			Name:          wc.Name,
			Perspective:   perspective,
			Model:         anthropic.Model(cfg.Anthropic.Model),
			APIKey:        cfg.Anthropic.APIKey,
			UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
		})
		if err != nil {
			log.Printf("[strray] WARNING: worker %s falls back to simulated: %v", wc.Name, err)
			continue
		}
		provider.Add(w)
	}
	return provider
}

// controlDir is where the signal watcher looks for cleanup markers.
func controlDir() string {
	return filepath.Join(filepath.Dir(state.DefaultDBPath()), "control")
}

// close releases the engine's resources.
func (e *engine) close() {
	if e.manager != nil {
		e.manager.Stop()
	}
	if e.logger != nil {
		e.logger.Close()
	}
	if e.emitter != nil {
		e.emitter.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
}
