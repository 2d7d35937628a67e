// Package di provides dependency injection configuration for the Notedown server.
package di

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/notedownapp/notedown-server/internal/config"
	"github.com/notedownapp/notedown-server/internal/logger"
	"github.com/notedownapp/notedown-server/internal/service"
	"github.com/notedownapp/notedown-server/internal/store"
	"github.com/notedownapp/notedown-server/internal/store/badger"
	"github.com/notedownapp/notedown-server/internal/store/sqlite"
	"github.com/notedownapp/notedown-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, ProvideConfig)
	do.Provide(injector, ProvideLogger)
	do.Provide(injector, ProvideValidator)

	// Storage layer
	do.Provide(injector, ProvideStore)

	// Business services
	do.Provide(injector, ProvideLibraryService)
	do.Provide(injector, ProvideNoteService)

	return injector
}

// ProvideConfig provides the application configuration.
func ProvideConfig(do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Notedown Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"storage_backend", cfg.Storage.Backend,
		"data_path", cfg.Storage.DataPath,
	)

	return log, nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the persistence backend selected by configuration.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		st, err = sqlite.Open(cfg.DatabasePath(), log.Logger)
	default:
		st, err = badger.Open(cfg.DatabasePath(), log.Logger)
	}
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "backend", cfg.Storage.Backend, "path", cfg.DatabasePath())

	return &StoreHandle{Store: st}, nil
}

// ProvideLibraryService provides the library service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(storeHandle.Store, validate, log.Logger), nil
}

// ProvideNoteService provides the note service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, validate, log.Logger), nil
}
