// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"fmt"
	"sync"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/infra/memstore"
)

// MockTaskRepository wraps an in-memory repository and injects errors.
// Operations without a configured error are delegated unchanged.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	*memstore.Store
	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewMockTaskRepository creates a new MockTaskRepository over an empty store.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{Store: memstore.New()}
}

// Ensure MockTaskRepository implements domain.StateRepository.
var _ domain.StateRepository = (*MockTaskRepository)(nil)

// Tasks returns ListErr or delegates.
func (m *MockTaskRepository) Tasks() ([]*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Store.Tasks()
}

// Epics returns ListErr or delegates.
func (m *MockTaskRepository) Epics() ([]*domain.Epic, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Store.Epics()
}

// Subtasks returns ListErr or delegates.
func (m *MockTaskRepository) Subtasks() ([]*domain.Subtask, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Store.Subtasks()
}

// GetTask returns GetErr or delegates.
func (m *MockTaskRepository) GetTask(id int) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Store.GetTask(id)
}

// GetEpic returns GetErr or delegates.
func (m *MockTaskRepository) GetEpic(id int) (*domain.Epic, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Store.GetEpic(id)
}

// GetSubtask returns GetErr or delegates.
func (m *MockTaskRepository) GetSubtask(id int) (*domain.Subtask, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Store.GetSubtask(id)
}

// CreateTask returns CreateErr or delegates.
func (m *MockTaskRepository) CreateTask(task *domain.Task) (*domain.Task, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return m.Store.CreateTask(task)
}

// CreateEpic returns CreateErr or delegates.
func (m *MockTaskRepository) CreateEpic(epic *domain.Epic) (*domain.Epic, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return m.Store.CreateEpic(epic)
}

// CreateSubtask returns CreateErr or delegates.
func (m *MockTaskRepository) CreateSubtask(subtask *domain.Subtask) (*domain.Subtask, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return m.Store.CreateSubtask(subtask)
}

// UpdateTask returns UpdateErr or delegates.
func (m *MockTaskRepository) UpdateTask(task *domain.Task) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	return m.Store.UpdateTask(task)
}

// UpdateEpic returns UpdateErr or delegates.
func (m *MockTaskRepository) UpdateEpic(epic *domain.Epic) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	return m.Store.UpdateEpic(epic)
}

// UpdateSubtask returns UpdateErr or delegates.
func (m *MockTaskRepository) UpdateSubtask(subtask *domain.Subtask) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	return m.Store.UpdateSubtask(subtask)
}

// DeleteTask returns DeleteErr or delegates.
func (m *MockTaskRepository) DeleteTask(id int) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.Store.DeleteTask(id)
}

// DeleteEpic returns DeleteErr or delegates.
func (m *MockTaskRepository) DeleteEpic(id int) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.Store.DeleteEpic(id)
}

// DeleteSubtask returns DeleteErr or delegates.
func (m *MockTaskRepository) DeleteSubtask(id int) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.Store.DeleteSubtask(id)
}

// DeleteAllTasks returns DeleteErr or delegates.
func (m *MockTaskRepository) DeleteAllTasks() error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.Store.DeleteAllTasks()
}

// DeleteAllEpics returns DeleteErr or delegates.
func (m *MockTaskRepository) DeleteAllEpics() error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.Store.DeleteAllEpics()
}

// DeleteAllSubtasks returns DeleteErr or delegates.
func (m *MockTaskRepository) DeleteAllSubtasks() error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.Store.DeleteAllSubtasks()
}

// MockStateStore is a test double for domain.StateStore.
// Fields are ordered to minimize memory padding.
type MockStateStore struct {
	State     *domain.State // Returned by Load and replaced by Save
	LoadErr   error
	SaveErr   error
	LoadCalls int
	SaveCalls int
}

// NewMockStateStore creates a MockStateStore holding an empty state.
func NewMockStateStore() *MockStateStore {
	return &MockStateStore{State: &domain.State{}}
}

// Ensure MockStateStore implements domain.StateStore.
var _ domain.StateStore = (*MockStateStore)(nil)

// Load returns the configured state or error.
func (m *MockStateStore) Load() (*domain.State, error) {
	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.State, nil
}

// Save records the state or returns the configured error.
func (m *MockStateStore) Save(state *domain.State) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.State = state
	return nil
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
	InitCalled  bool
}

// Initialize records the call and returns the configured error.
func (m *MockStoreInitializer) Initialize() error {
	m.InitCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized returns the configured value.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// LogEntry is a single entry captured by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	EntityID int
}

// String formats the entry for assertion messages.
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] [%d] [%s] %s", e.Level, e.EntityID, e.Category, e.Msg)
}

// MockLogger is a test double for domain.Logger that records entries.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

// Ensure MockLogger implements domain.Logger.
var _ domain.Logger = (*MockLogger)(nil)

func (m *MockLogger) record(level string, entityID int, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, EntityID: entityID, Category: category, Msg: msg})
}

func (m *MockLogger) Info(entityID int, category, msg string) {
	m.record("INFO", entityID, category, msg)
}

func (m *MockLogger) Debug(entityID int, category, msg string) {
	m.record("DEBUG", entityID, category, msg)
}

func (m *MockLogger) Warn(entityID int, category, msg string) {
	m.record("WARN", entityID, category, msg)
}

func (m *MockLogger) Error(entityID int, category, msg string) {
	m.record("ERROR", entityID, category, msg)
}

// ByLevel returns the entries logged at level.
func (m *MockLogger) ByLevel(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitRepoErr      error
	InitGlobalErr    error
	RepoConfigInfo   domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitRepoCalled   bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		RepoConfigInfo: domain.ConfigInfo{
			Path:   "/test/.tracker/config.toml",
			Exists: false,
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path:   "/home/test/.config/task-tracker/config.toml",
			Exists: false,
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetRepoConfigInfo returns the configured repo config info.
func (m *MockConfigManager) GetRepoConfigInfo() domain.ConfigInfo {
	return m.RepoConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitRepoConfig records the call and returns configured error.
func (m *MockConfigManager) InitRepoConfig() error {
	m.InitRepoCalled = true
	return m.InitRepoErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig() error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}
