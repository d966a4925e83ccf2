package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/testutil"
)

// seedMixed stores task #1, epic #2 with subtasks #3 and #4, and task #5.
func seedMixed(t *testing.T) *testutil.MockTaskRepository {
	t.Helper()
	repo := testutil.NewMockTaskRepository()
	_, err := repo.CreateTask(&domain.Task{Title: "Standup"})
	require.NoError(t, err)
	_, err = repo.CreateEpic(domain.NewEpic("Release", ""))
	require.NoError(t, err)
	_, err = repo.CreateSubtask(&domain.Subtask{Task: domain.Task{Title: "Build", Status: domain.StatusDone}, EpicID: 2})
	require.NoError(t, err)
	_, err = repo.CreateSubtask(&domain.Subtask{Task: domain.Task{Title: "Publish notes"}, EpicID: 2})
	require.NoError(t, err)
	_, err = repo.CreateTask(&domain.Task{Title: "Review", Description: "release notes", Status: domain.StatusInProgress})
	require.NoError(t, err)
	return repo
}

func TestClearEntities_Execute(t *testing.T) {
	tests := []struct {
		name           string
		kind           domain.Kind
		wantTasks      int
		wantEpics      int
		wantSubtasks   int
		remainTasks    int
		remainEpics    int
		remainSubtasks int
	}{
		{name: "everything", kind: "", wantTasks: 2, wantEpics: 1, wantSubtasks: 2},
		{name: "tasks", kind: domain.KindTask, wantTasks: 2, remainEpics: 1, remainSubtasks: 2},
		{name: "epics cascade", kind: domain.KindEpic, wantEpics: 1, wantSubtasks: 2, remainTasks: 2},
		{name: "subtasks", kind: domain.KindSubtask, wantSubtasks: 2, remainTasks: 2, remainEpics: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			repo := seedMixed(t)
			logger := &testutil.MockLogger{}
			uc := NewClearEntities(repo, logger)

			// Execute
			out, err := uc.Execute(context.Background(), ClearEntitiesInput{Kind: tt.kind})

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantTasks, out.Tasks)
			assert.Equal(t, tt.wantEpics, out.Epics)
			assert.Equal(t, tt.wantSubtasks, out.Subtasks)
			assert.Equal(t, tt.wantTasks+tt.wantEpics+tt.wantSubtasks, out.Total())

			tasks, _ := repo.Tasks()
			epics, _ := repo.Epics()
			subtasks, _ := repo.Subtasks()
			assert.Len(t, tasks, tt.remainTasks)
			assert.Len(t, epics, tt.remainEpics)
			assert.Len(t, subtasks, tt.remainSubtasks)
			assert.Len(t, logger.ByLevel("INFO"), 1)
		})
	}
}

func TestClearEntities_Execute_SubtasksResetEpic(t *testing.T) {
	repo := seedMixed(t)

	_, err := NewClearEntities(repo, nil).Execute(context.Background(), ClearEntitiesInput{Kind: domain.KindSubtask})

	require.NoError(t, err)
	epic, err := repo.Peek(2)
	require.NoError(t, err)
	assert.Empty(t, epic.(*domain.Epic).SubtaskList())
	assert.Equal(t, domain.StatusNew, epic.Base().Status)
}

func TestClearEntities_Execute_InvalidKind(t *testing.T) {
	repo := seedMixed(t)

	_, err := NewClearEntities(repo, nil).Execute(context.Background(), ClearEntitiesInput{Kind: "story"})

	assert.ErrorIs(t, err, domain.ErrInvalidKind)
	tasks, _ := repo.Tasks()
	assert.Len(t, tasks, 2)
}

func TestClearEntities_Execute_DeleteError(t *testing.T) {
	repo := seedMixed(t)
	repo.DeleteErr = assert.AnError

	_, err := NewClearEntities(repo, nil).Execute(context.Background(), ClearEntitiesInput{Kind: domain.KindTask})

	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "delete tasks")
}
