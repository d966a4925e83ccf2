package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/testutil"
)

func TestDeleteEntity_Execute_EpicCascades(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task, epic, subs := seedRelease(t, repo)
	for _, id := range []int{subs[0].ID, epic.ID, task.ID} {
		_, err := NewShowEntity(repo).Execute(context.Background(), ShowEntityInput{ID: id})
		require.NoError(t, err)
	}
	logger := &testutil.MockLogger{}
	uc := NewDeleteEntity(repo, logger)

	// Execute
	out, err := uc.Execute(context.Background(), DeleteEntityInput{ID: epic.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.KindEpic, out.Kind)
	assert.Equal(t, []int{subs[0].ID, subs[1].ID}, out.Cascaded)

	subtasks, err := repo.Subtasks()
	require.NoError(t, err)
	assert.Empty(t, subtasks)

	prioritized, err := repo.Prioritized()
	require.NoError(t, err)
	assert.Empty(t, prioritized)

	history, err := repo.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, task.ID, history[0].Identity())

	require.Len(t, logger.Entries, 1)
	assert.Contains(t, logger.Entries[0].Msg, "2 subtask(s)")
}

func TestDeleteEntity_Execute_SubtaskRollsUpEpic(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	_, epic, subs := seedRelease(t, repo)

	_, err := NewDeleteEntity(repo, nil).Execute(context.Background(), DeleteEntityInput{ID: subs[1].ID})
	require.NoError(t, err)

	stored, err := repo.Peek(epic.ID)
	require.NoError(t, err)
	e := stored.(*domain.Epic)
	assert.Equal(t, domain.StatusDone, e.Status)
	assert.Equal(t, at(12, 0), *e.EndTime)
}

func TestDeleteEntity_Execute_IDsAreNotReused(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task, _, subs := seedRelease(t, repo)

	_, err := NewDeleteEntity(repo, nil).Execute(context.Background(), DeleteEntityInput{ID: task.ID})
	require.NoError(t, err)
	created, err := NewNewTask(repo, nil).Execute(context.Background(), NewTaskInput{Title: "next"})
	require.NoError(t, err)

	assert.Greater(t, created.Task.ID, subs[1].ID)
}

func TestDeleteEntity_Execute_Errors(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task, _, _ := seedRelease(t, repo)
	uc := NewDeleteEntity(repo, nil)

	_, err := uc.Execute(context.Background(), DeleteEntityInput{ID: 99})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Execute(context.Background(), DeleteEntityInput{ID: task.ID, Kind: domain.KindSubtask})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	repo.DeleteErr = domain.ErrPersistence
	_, err = uc.Execute(context.Background(), DeleteEntityInput{ID: task.ID})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestClearEntities_Execute_2(t *testing.T) {
	tests := []struct {
		name                         string
		kind                         domain.Kind
		tasks, epics, subtasks       int
		leftTasks, leftEpics, leftST int
	}{
		{name: "tasks", kind: domain.KindTask, tasks: 1, leftEpics: 1, leftST: 2},
		{name: "subtasks", kind: domain.KindSubtask, subtasks: 2, leftTasks: 1, leftEpics: 1},
		{name: "epics", kind: domain.KindEpic, epics: 1, subtasks: 2, leftTasks: 1},
		{name: "everything", tasks: 1, epics: 1, subtasks: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			seedRelease(t, repo)

			out, err := NewClearEntities(repo, nil).Execute(context.Background(), ClearEntitiesInput{Kind: tt.kind})

			require.NoError(t, err)
			assert.Equal(t, tt.tasks, out.Tasks)
			assert.Equal(t, tt.epics, out.Epics)
			assert.Equal(t, tt.subtasks, out.Subtasks)
			assert.Equal(t, tt.tasks+tt.epics+tt.subtasks, out.Total())

			tasks, _ := repo.Tasks()
			epics, _ := repo.Epics()
			subtasks, _ := repo.Subtasks()
			assert.Len(t, tasks, tt.leftTasks)
			assert.Len(t, epics, tt.leftEpics)
			assert.Len(t, subtasks, tt.leftST)
		})
	}
}

func TestClearEntities_Execute_SubtasksResetsEpics(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	_, epic, _ := seedRelease(t, repo)

	_, err := NewClearEntities(repo, nil).Execute(context.Background(), ClearEntitiesInput{Kind: domain.KindSubtask})
	require.NoError(t, err)

	stored, err := repo.Peek(epic.ID)
	require.NoError(t, err)
	e := stored.(*domain.Epic)
	assert.Equal(t, domain.StatusNew, e.Status)
	assert.Nil(t, e.Start)
	assert.Nil(t, e.EndTime)
	assert.Zero(t, *e.Duration)
	assert.Empty(t, e.SubtaskList())
}

func TestClearEntities_Execute_InvalidKind_2(t *testing.T) {
	_, err := NewClearEntities(testutil.NewMockTaskRepository(), nil).Execute(context.Background(), ClearEntitiesInput{Kind: "STORY"})

	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}
