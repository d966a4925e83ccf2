package gitstore

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/task-tracker/internal/domain"
)

func setupTestRepo(t *testing.T) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(t.TempDir(), false)
	require.NoError(t, err)
	return repo
}

func TestStore_Initialize(t *testing.T) {
	repo := setupTestRepo(t)
	store := NewWithRepo(repo, "tracker-test")
	assert.False(t, store.IsInitialized())

	require.NoError(t, store.Initialize())
	assert.True(t, store.IsInitialized())

	// Second call should be idempotent
	require.NoError(t, store.Initialize())

	_, err := repo.Reference("refs/tracker-test/initialized", true)
	assert.NoError(t, err)
}

func TestStore_LoadNotInitialized(t *testing.T) {
	store := NewWithRepo(setupTestRepo(t), "tracker-test")

	_, err := store.Load()

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestStore_LoadEmpty(t *testing.T) {
	store := NewWithRepo(setupTestRepo(t), "tracker-test")
	require.NoError(t, store.Initialize())

	state, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, state.Tasks)
	assert.Empty(t, state.History)
}

func TestStore_SaveAndLoad(t *testing.T) {
	// Setup
	repo := setupTestRepo(t)
	store := NewWithRepo(repo, "tracker-test")
	require.NoError(t, store.Initialize())

	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)
	epic := domain.NewEpic("Epic", "")
	epic.ID = 2
	in := &domain.State{
		Tasks: []*domain.Task{{
			ID: 1, Title: "Task", Status: domain.StatusNew,
			Start: &start, Duration: domain.DurationPtr(30 * time.Minute),
		}},
		Epics:    []*domain.Epic{epic},
		Subtasks: []*domain.Subtask{{Task: domain.Task{ID: 3, Title: "Sub", Status: domain.StatusDone}, EpicID: 2}},
		History:  []domain.Ref{{Kind: domain.KindEpic, ID: 2}},
		NextID:   6,
	}

	// Execute
	require.NoError(t, store.Save(in))
	out, err := store.Load()

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.True(t, out.Tasks[0].Start.Equal(start))
	assert.Equal(t, 30*time.Minute, *out.Tasks[0].Duration)
	require.Len(t, out.Epics, 1)
	require.Len(t, out.Subtasks, 1)
	assert.Equal(t, 2, out.Subtasks[0].EpicID)
	assert.Equal(t, []domain.Ref{{Kind: domain.KindEpic, ID: 2}}, out.History)
	assert.Equal(t, 6, out.NextID)
}

func TestStore_SaveMovesRefs(t *testing.T) {
	repo := setupTestRepo(t)
	store := NewWithRepo(repo, "tracker-test")
	require.NoError(t, store.Initialize())

	require.NoError(t, store.Save(&domain.State{Tasks: []*domain.Task{{ID: 1, Title: "a", Status: domain.StatusNew}}}))
	first, err := repo.Reference(plumbing.ReferenceName("refs/tracker-test/state"), true)
	require.NoError(t, err)

	require.NoError(t, store.Save(&domain.State{}))
	second, err := repo.Reference(plumbing.ReferenceName("refs/tracker-test/state"), true)
	require.NoError(t, err)

	assert.NotEqual(t, first.Hash(), second.Hash())
	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state.Tasks)
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	repo := setupTestRepo(t)
	a := NewWithRepo(repo, "tracker-a")
	b := NewWithRepo(repo, "tracker-b")
	require.NoError(t, a.Initialize())
	require.NoError(t, b.Initialize())

	require.NoError(t, a.Save(&domain.State{Tasks: []*domain.Task{{ID: 1, Title: "a", Status: domain.StatusNew}}}))

	state, err := b.Load()
	require.NoError(t, err)
	assert.Empty(t, state.Tasks)
}

func TestStore_CorruptedState(t *testing.T) {
	repo := setupTestRepo(t)
	store := NewWithRepo(repo, "tracker-test")
	require.NoError(t, store.Initialize())
	require.NoError(t, store.setBlobRef(store.stateRef(), []byte("id,type\ncorrupted,data\n")))

	_, err := store.Load()

	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestNew_NotARepository(t *testing.T) {
	_, err := New(t.TempDir(), "tracker-test")

	assert.Error(t, err)
}
