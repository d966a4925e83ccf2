package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/testutil"
)

func seed(t *testing.T, repo domain.TaskRepository) (task *domain.Task, epic *domain.Epic, sub *domain.Subtask) {
	t.Helper()
	epic, err := repo.CreateEpic(domain.NewEpic("epic", ""))
	require.NoError(t, err)
	task, err = repo.CreateTask(&domain.Task{Title: "task"})
	require.NoError(t, err)
	sub, err = repo.CreateSubtask(&domain.Subtask{Task: domain.Task{Title: "sub"}, EpicID: epic.ID})
	require.NoError(t, err)
	return task, epic, sub
}

func TestGetEntity(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task, epic, sub := seed(t, repo)

	for _, id := range []int{task.ID, epic.ID, sub.ID} {
		got, err := GetEntity(repo, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.Identity())
	}

	history, err := repo.History()
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.KindTask, history[0].Kind())
	assert.Equal(t, domain.KindEpic, history[1].Kind())
	assert.Equal(t, domain.KindSubtask, history[2].Kind())
}

func TestGetEntity_NotFound(t *testing.T) {
	repo := testutil.NewMockTaskRepository()

	got, err := GetEntity(repo, 99)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetEntity_GetError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task, _, _ := seed(t, repo)
	repo.GetErr = errors.New("boom")

	got, err := GetEntity(repo, task.ID)

	assert.Nil(t, got)
	assert.EqualError(t, err, "boom")
}

func TestPeekAs(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task, epic, _ := seed(t, repo)

	got, err := PeekAs(repo, epic.ID, domain.KindEpic)
	require.NoError(t, err)
	assert.Equal(t, epic.ID, got.Identity())

	_, err = PeekAs(repo, task.ID, domain.KindEpic)
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
	assert.Contains(t, err.Error(), "is Task, want Epic")

	history, err := repo.History()
	require.NoError(t, err)
	assert.Empty(t, history, "peeking never records a visit")
}

func TestAllEntities(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task, epic, sub := seed(t, repo)

	all, err := AllEntities(repo)

	require.NoError(t, err)
	ids := make([]int, 0, len(all))
	for _, e := range all {
		ids = append(ids, e.Identity())
	}
	assert.Equal(t, []int{epic.ID, task.ID, sub.ID}, ids)
}

func TestAllEntities_ListError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.ListErr = errors.New("unavailable")

	_, err := AllEntities(repo)

	assert.ErrorContains(t, err, "list tasks")
}
