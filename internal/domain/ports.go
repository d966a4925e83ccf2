package domain

import "time"

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error

	// IsInitialized reports whether the store exists.
	IsInitialized() bool
}

// StateStore persists the full repository state.
// Save always rewrites the entire state; there is no incremental append.
type StateStore interface {
	// Load reads the full state. Returns ErrNotInitialized if the store does not exist.
	Load() (*State, error)

	// Save rewrites the full state.
	Save(state *State) error
}

// State is a full snapshot of the repository, exchanged with persistence.
// Fields are ordered to minimize memory padding.
type State struct {
	Tasks    []*Task
	Epics    []*Epic
	Subtasks []*Subtask
	History  []Ref    // Recency order, oldest first (optional)
	Skipped  []string // Records dropped while loading; never persisted
	NextID   int      // Next identifier to assign (0 = derive from max ID)
}

// TaskRepository manages tasks, epics and subtasks.
// All methods complete synchronously; returned entities are copies.
type TaskRepository interface {
	// Tasks returns all plain tasks ordered by ID.
	Tasks() ([]*Task, error)

	// Epics returns all epics ordered by ID.
	Epics() ([]*Epic, error)

	// Subtasks returns all subtasks ordered by ID.
	Subtasks() ([]*Subtask, error)

	// GetTask retrieves a task and records the visit in history.
	// Returns ErrNotFound without side effects on a miss.
	GetTask(id int) (*Task, error)

	// GetEpic retrieves an epic and records the visit in history.
	GetEpic(id int) (*Epic, error)

	// GetSubtask retrieves a subtask and records the visit in history.
	GetSubtask(id int) (*Subtask, error)

	// Peek resolves any identifier without recording a visit.
	Peek(id int) (Entity, error)

	// EpicSubtasks returns the subtasks owned by an epic (empty if the epic is absent).
	EpicSubtasks(epicID int) ([]*Subtask, error)

	// History returns the visited entities, oldest first.
	History() ([]Entity, error)

	// Prioritized returns scheduled entities ordered by (start, ID).
	Prioritized() ([]Entity, error)

	// InRange returns scheduled entities fully contained in [from, to].
	InRange(from, to time.Time) ([]Entity, error)

	// CreateTask stores a new task and returns it with its assigned ID.
	CreateTask(task *Task) (*Task, error)

	// CreateEpic stores a new epic with an empty subtask set.
	CreateEpic(epic *Epic) (*Epic, error)

	// CreateSubtask stores a new subtask under an existing epic.
	CreateSubtask(subtask *Subtask) (*Subtask, error)

	// UpdateTask replaces a stored task.
	UpdateTask(task *Task) error

	// UpdateEpic changes an epic's title and description.
	UpdateEpic(epic *Epic) error

	// UpdateSubtask replaces a stored subtask, moving it between epics if needed.
	UpdateSubtask(subtask *Subtask) error

	// DeleteTask removes a task.
	DeleteTask(id int) error

	// DeleteEpic removes an epic and all its subtasks.
	DeleteEpic(id int) error

	// DeleteSubtask removes a subtask.
	DeleteSubtask(id int) error

	// DeleteAllTasks removes every plain task.
	DeleteAllTasks() error

	// DeleteAllEpics removes every epic and every subtask.
	DeleteAllEpics() error

	// DeleteAllSubtasks removes every subtask.
	DeleteAllSubtasks() error
}

// StateRepository is a TaskRepository whose full state can be captured and replaced.
type StateRepository interface {
	TaskRepository

	// Snapshot returns a deep copy of the current state.
	Snapshot() *State

	// Restore replaces the current state. On error the previous state is kept.
	Restore(state *State) error
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (global + repo + environment).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetRepoConfigInfo returns information about the repository config file.
	GetRepoConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitRepoConfig creates a repository config file with the default template.
	InitRepoConfig() error

	// InitGlobalConfig creates a global config file with the default template.
	InitGlobalConfig() error
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Logger writes categorized log entries, optionally scoped to an entity.
// An entityID of 0 logs globally.
type Logger interface {
	Info(entityID int, category, msg string)
	Debug(entityID int, category, msg string)
	Warn(entityID int, category, msg string)
	Error(entityID int, category, msg string)
}

// NopLogger discards all log entries.
type NopLogger struct{}

func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}
