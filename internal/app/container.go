// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/infra/config"
	"github.com/runoshun/task-tracker/internal/infra/csvstore"
	"github.com/runoshun/task-tracker/internal/infra/gitstore"
	"github.com/runoshun/task-tracker/internal/infra/jsonstore"
	"github.com/runoshun/task-tracker/internal/infra/logging"
	"github.com/runoshun/task-tracker/internal/infra/memstore"
	"github.com/runoshun/task-tracker/internal/infra/persisted"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// Config holds the application paths and store selection.
// Fields are ordered to minimize memory padding.
type Config struct {
	Root      string // Working directory that holds .tracker
	DataDir   string // Path to .tracker directory
	Backend   string // Store backend (csv, json, git)
	StorePath string // Resolved store file (csv, json)
	Namespace string // Ref namespace (git)
}

// newConfig resolves paths for a working directory and loaded settings.
func newConfig(root string, appConfig *domain.Config) Config {
	dataDir := domain.DataDir(root)
	return Config{
		Root:      root,
		DataDir:   dataDir,
		Backend:   appConfig.Store.Backend,
		StorePath: domain.ResolveStorePath(dataDir, appConfig.StorePath()),
		Namespace: appConfig.Store.Namespace,
	}
}

// Reloader discards in-memory state and reads the store again.
type Reloader interface {
	Reload() error
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskRepository
	Store            domain.StateStore // Backend behind Tasks (nil in tests)
	Reloader         Reloader
	StoreInitializer domain.StoreInitializer
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Log              domain.Logger // File log under .tracker/logs

	// Pointer fields
	Logger    *slog.Logger  // Console diagnostics on stderr
	AppConfig *domain.Config
	closer    io.Closer

	// Configuration
	Config Config
}

// New creates a new Container for the working directory dir.
func New(dir string) (*Container, error) {
	dataDir := domain.DataDir(dir)

	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := newConfig(dir, appConfig)

	store, storeInit, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	fileLogger := logging.New(cfg.DataDir, logging.ParseLevel(appConfig.Log.Level))
	repo := persisted.New(memstore.New(), store, fileLogger)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	return &Container{
		Tasks:            repo,
		Store:            store,
		Reloader:         repo,
		StoreInitializer: storeInit,
		ConfigLoader:     configLoader,
		ConfigManager:    config.NewManager(dataDir),
		Log:              fileLogger,
		Logger:           logger,
		AppConfig:        appConfig,
		closer:           fileLogger,
		Config:           cfg,
	}, nil
}

// stateStore is implemented by every persistence backend.
type stateStore interface {
	domain.StateStore
	domain.StoreInitializer
}

// Ensure every backend satisfies stateStore.
var (
	_ stateStore = (*csvstore.Store)(nil)
	_ stateStore = (*jsonstore.Store)(nil)
	_ stateStore = (*gitstore.Store)(nil)
)

// newStore creates the persistence backend selected by the config.
func newStore(cfg Config) (domain.StateStore, domain.StoreInitializer, error) {
	var store stateStore
	switch cfg.Backend {
	case domain.BackendCSV:
		store = csvstore.New(cfg.StorePath)
	case domain.BackendJSON:
		store = jsonstore.New(cfg.StorePath)
	case domain.BackendGit:
		gs, err := gitstore.New(cfg.Root, cfg.Namespace)
		if err != nil {
			return nil, nil, err
		}
		store = gs
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
	return store, store, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, tasks domain.TaskRepository, storeInit domain.StoreInitializer, logger *slog.Logger) *Container {
	c := &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		Log:              domain.NopLogger{},
		Logger:           logger,
		AppConfig:        domain.NewDefaultConfig(),
		Config:           cfg,
	}
	if r, ok := tasks.(Reloader); ok {
		c.Reloader = r
	}
	return c
}

// Close releases open log files.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// TimeFormat returns the layout used to print times.
func (c *Container) TimeFormat() string {
	if c.AppConfig == nil || c.AppConfig.Display.TimeFormat == "" {
		return domain.DefaultTimeFormat
	}
	return c.AppConfig.Display.TimeFormat
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.ConfigManager, c.Log)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.Log)
}

// NewEpicUseCase returns a new NewEpic use case.
func (c *Container) NewEpicUseCase() *usecase.NewEpic {
	return usecase.NewNewEpic(c.Tasks, c.Log)
}

// NewSubtaskUseCase returns a new NewSubtask use case.
func (c *Container) NewSubtaskUseCase() *usecase.NewSubtask {
	return usecase.NewNewSubtask(c.Tasks, c.Log)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Log)
}

// EditEpicUseCase returns a new EditEpic use case.
func (c *Container) EditEpicUseCase() *usecase.EditEpic {
	return usecase.NewEditEpic(c.Tasks, c.Log)
}

// EditSubtaskUseCase returns a new EditSubtask use case.
func (c *Container) EditSubtaskUseCase() *usecase.EditSubtask {
	return usecase.NewEditSubtask(c.Tasks, c.Log)
}

// ShowEntityUseCase returns a new ShowEntity use case.
func (c *Container) ShowEntityUseCase() *usecase.ShowEntity {
	return usecase.NewShowEntity(c.Tasks)
}

// ListEntitiesUseCase returns a new ListEntities use case.
func (c *Container) ListEntitiesUseCase() *usecase.ListEntities {
	return usecase.NewListEntities(c.Tasks)
}

// DeleteEntityUseCase returns a new DeleteEntity use case.
func (c *Container) DeleteEntityUseCase() *usecase.DeleteEntity {
	return usecase.NewDeleteEntity(c.Tasks, c.Log)
}

// ClearEntitiesUseCase returns a new ClearEntities use case.
func (c *Container) ClearEntitiesUseCase() *usecase.ClearEntities {
	return usecase.NewClearEntities(c.Tasks, c.Log)
}

// ShowHistoryUseCase returns a new ShowHistory use case.
func (c *Container) ShowHistoryUseCase() *usecase.ShowHistory {
	return usecase.NewShowHistory(c.Tasks)
}

// ShowScheduleUseCase returns a new ShowSchedule use case.
func (c *Container) ShowScheduleUseCase() *usecase.ShowSchedule {
	return usecase.NewShowSchedule(c.Tasks)
}

// GroupByStatusUseCase returns a new GroupByStatus use case.
func (c *Container) GroupByStatusUseCase() *usecase.GroupByStatus {
	return usecase.NewGroupByStatus(c.Tasks)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ImportEntitiesUseCase returns a new ImportEntities use case.
func (c *Container) ImportEntitiesUseCase() *usecase.ImportEntities {
	return usecase.NewImportEntities(c.Tasks, c.Log)
}

// MigrateStoreUseCase returns a MigrateStore use case that copies the current
// store into backend. An empty path selects the default file of the backend.
func (c *Container) MigrateStoreUseCase(backend, path string) (*usecase.MigrateStore, error) {
	if c.Store == nil {
		return nil, errors.New("no source store configured")
	}
	if !slices.Contains(domain.AllBackends(), backend) {
		return nil, fmt.Errorf("unsupported store backend %q", backend)
	}

	destCfg := c.Config
	destCfg.Backend = backend
	if path == "" {
		path = (&domain.Config{Store: domain.StoreConfig{Backend: backend}}).StorePath()
	}
	destCfg.StorePath = domain.ResolveStorePath(c.Config.DataDir, path)

	if destCfg.Backend == c.Config.Backend && destCfg.StorePath == c.Config.StorePath {
		return nil, domain.ErrMigrationTarget
	}

	dest, destInit, err := newStore(destCfg)
	if err != nil {
		return nil, err
	}
	return usecase.NewMigrateStore(c.Store, dest, destInit, c.Log), nil
}
