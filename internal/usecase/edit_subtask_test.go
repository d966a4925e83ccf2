package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/testutil"
)

// seedEpics stores epics #1 and #2 and subtask #3 in epic #1.
func seedEpics(t *testing.T) *testutil.MockTaskRepository {
	t.Helper()
	repo := testutil.NewMockTaskRepository()
	_, err := repo.CreateEpic(domain.NewEpic("Release", ""))
	require.NoError(t, err)
	_, err = repo.CreateEpic(domain.NewEpic("Docs", ""))
	require.NoError(t, err)
	_, err = repo.CreateSubtask(&domain.Subtask{
		Task:   domain.Task{Title: "Build", Start: ptr(at(9, 0)), Duration: ptr(time.Hour)},
		EpicID: 1,
	})
	require.NoError(t, err)
	return repo
}

func TestEditSubtask_Execute_StatusRollsUp(t *testing.T) {
	// Setup
	repo := seedEpics(t)
	uc := NewEditSubtask(repo, nil)

	// Execute
	out, err := uc.Execute(context.Background(), EditSubtaskInput{
		SubtaskID:  3,
		TaskFields: TaskFields{Status: ptr("done")},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, out.Subtask.Status)
	require.NotNil(t, out.Epic)
	assert.Equal(t, domain.StatusDone, out.Epic.Status)
	assert.Nil(t, out.Previous)
}

func TestEditSubtask_Execute_Move(t *testing.T) {
	// Setup
	repo := seedEpics(t)
	logger := &testutil.MockLogger{}
	uc := NewEditSubtask(repo, logger)

	// Execute
	out, err := uc.Execute(context.Background(), EditSubtaskInput{
		SubtaskID: 3,
		EpicID:    ptr(2),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, out.Subtask.EpicID)
	require.NotNil(t, out.Epic)
	assert.Equal(t, []int{3}, out.Epic.SubtaskList())
	require.NotNil(t, out.Epic.Start)
	assert.True(t, at(9, 0).Equal(*out.Epic.Start))

	require.NotNil(t, out.Previous)
	assert.Equal(t, 1, out.Previous.ID)
	assert.Empty(t, out.Previous.SubtaskList())
	assert.Nil(t, out.Previous.Start)

	require.Len(t, logger.Entries, 2)
	assert.Contains(t, logger.Entries[0].Msg, "moved: epic #1 -> #2")
}

func TestEditSubtask_Execute_Reschedule(t *testing.T) {
	repo := seedEpics(t)
	uc := NewEditSubtask(repo, nil)

	out, err := uc.Execute(context.Background(), EditSubtaskInput{
		SubtaskID:  3,
		TaskFields: TaskFields{Start: ptr(at(14, 0))},
	})

	require.NoError(t, err)
	require.NotNil(t, out.Epic.EndTime)
	assert.True(t, at(15, 0).Equal(*out.Epic.EndTime))
	schedule, _ := repo.Prioritized()
	require.Len(t, schedule, 1)
	start, _ := schedule[0].StartTime()
	assert.True(t, at(14, 0).Equal(start))
}

func TestEditSubtask_Execute_Errors(t *testing.T) {
	repo := seedEpics(t)
	_, err := repo.CreateTask(&domain.Task{Title: "Busy", Start: ptr(at(12, 0)), Duration: ptr(time.Hour)})
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      EditSubtaskInput
		wantErr error
	}{
		{
			name:    "no fields",
			in:      EditSubtaskInput{SubtaskID: 3},
			wantErr: domain.ErrNoFieldsToUpdate,
		},
		{
			name:    "not a subtask",
			in:      EditSubtaskInput{SubtaskID: 1, TaskFields: TaskFields{Title: ptr("x")}},
			wantErr: domain.ErrInvalidKind,
		},
		{
			name:    "not found",
			in:      EditSubtaskInput{SubtaskID: 99, TaskFields: TaskFields{Title: ptr("x")}},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "self reference",
			in:      EditSubtaskInput{SubtaskID: 3, EpicID: ptr(3)},
			wantErr: domain.ErrSelfReference,
		},
		{
			name:    "unknown epic",
			in:      EditSubtaskInput{SubtaskID: 3, EpicID: ptr(42)},
			wantErr: domain.ErrEpicNotFound,
		},
		{
			name:    "time conflict",
			in:      EditSubtaskInput{SubtaskID: 3, TaskFields: TaskFields{Start: ptr(at(11, 30))}},
			wantErr: domain.ErrTimeConflict,
		},
		{
			name:    "negative duration",
			in:      EditSubtaskInput{SubtaskID: 3, TaskFields: TaskFields{Duration: ptr(-time.Minute)}},
			wantErr: domain.ErrInvalidDuration,
		},
		{
			name:    "partial minute",
			in:      EditSubtaskInput{SubtaskID: 3, TaskFields: TaskFields{Duration: ptr(time.Hour + 30*time.Second)}},
			wantErr: domain.ErrInvalidDuration,
		},
	}

	uc := NewEditSubtask(repo, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := repo.Peek(3)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.(*domain.Subtask).EpicID)
	start, _ := stored.StartTime()
	assert.True(t, at(9, 0).Equal(start))
}
