// Package app assembles the storage backend, gateway, repositories and use cases
// from a loaded configuration. The server and the CLI commands share it.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpHandlers "github.com/taskmaster/todoplus/internal/adapters/http"
	"github.com/taskmaster/todoplus/internal/adapters/identity"
	"github.com/taskmaster/todoplus/internal/adapters/repository"
	"github.com/taskmaster/todoplus/internal/adapters/storage"
	"github.com/taskmaster/todoplus/internal/application/services"
	"github.com/taskmaster/todoplus/internal/infrastructure/config"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/infrastructure/metrics"
	"github.com/taskmaster/todoplus/internal/ports"
)

// App holds the wired components of one process
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    ports.KeyValueStore
	Gateway  *storage.Gateway
	Registry *prometheus.Registry

	Tasks       *services.TaskService
	Projects    *services.ProjectService
	Preferences *services.PreferenceService
	Data        *services.DataService
	Clock       ports.Clock
}

// Options overrides the defaults New picks from the configuration
type Options struct {
	Store ports.KeyValueStore
	IDs   ports.IDGenerator
	Clock ports.Clock
}

// New opens the configured backend and wires the use cases over it
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	registry := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	store := opts.Store
	if store == nil {
		var err error
		store, err = storage.Open(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
		}
	}

	ids := opts.IDs
	if ids == nil {
		var err error
		ids, err = identity.NewGenerator(cfg.App.IDScheme)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	clock := opts.Clock
	if clock == nil {
		clock = identity.SystemClock{}
	}

	gateway := storage.NewGateway(store, storage.GatewayOptions{
		Key:              cfg.Storage.Key,
		DefaultProjectID: cfg.Storage.DefaultProjectID,
		Logger:           log,
		Metrics:          metrics.NewStorage(registry),
	})

	taskRepo := repository.NewTaskRepository(gateway)
	projectRepo := repository.NewProjectRepository(gateway)
	prefRepo := repository.NewPreferenceRepository(gateway)

	log.Infow("Storage ready", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key, "id_scheme", cfg.App.IDScheme)

	return &App{
		Config:      cfg,
		Logger:      log,
		Store:       store,
		Gateway:     gateway,
		Registry:    registry,
		Tasks:       services.NewTaskService(taskRepo, ids, clock, log),
		Projects:    services.NewProjectService(projectRepo, ids, clock, log),
		Preferences: services.NewPreferenceService(prefRepo, log),
		Data:        services.NewDataService(gateway, clock, log),
		Clock:       clock,
	}, nil
}

// Services returns the use cases in the shape the HTTP handlers expect
func (a *App) Services() httpHandlers.Services {
	return httpHandlers.Services{
		Tasks:       a.Tasks,
		Projects:    a.Projects,
		Preferences: a.Preferences,
		Data:        a.Data,
		Clock:       a.Clock,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Store.Close()
}
