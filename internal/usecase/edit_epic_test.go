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

func TestEditEpic_Execute(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	epic, err := repo.CreateEpic(domain.NewEpic("Release", "old"))
	require.NoError(t, err)
	start := at(9, 0)
	_, err = repo.CreateSubtask(&domain.Subtask{
		Task:   domain.Task{Title: "Build", Status: domain.StatusDone, Start: &start, Duration: ptr(time.Hour)},
		EpicID: epic.ID,
	})
	require.NoError(t, err)
	uc := NewEditEpic(repo, nil)

	// Execute
	out, err := uc.Execute(context.Background(), EditEpicInput{
		EpicID:      epic.ID,
		Description: ptr("new"),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Release", out.Epic.Title)
	assert.Equal(t, "new", out.Epic.Description)
	assert.Equal(t, domain.StatusDone, out.Epic.Status, "derived status is kept")
	require.NotNil(t, out.Epic.EndTime)
	assert.True(t, at(10, 0).Equal(*out.Epic.EndTime))

	history, _ := repo.History()
	assert.Empty(t, history)
}

func TestEditEpic_Execute_Errors(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task, err := repo.CreateTask(&domain.Task{Title: "Standup"})
	require.NoError(t, err)
	epic, err := repo.CreateEpic(domain.NewEpic("Release", ""))
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      EditEpicInput
		wantErr error
	}{
		{
			name:    "no fields",
			in:      EditEpicInput{EpicID: epic.ID},
			wantErr: domain.ErrNoFieldsToUpdate,
		},
		{
			name:    "empty title",
			in:      EditEpicInput{EpicID: epic.ID, Title: ptr("")},
			wantErr: domain.ErrEmptyTitle,
		},
		{
			name:    "not found",
			in:      EditEpicInput{EpicID: 99, Title: ptr("x")},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "wrong kind",
			in:      EditEpicInput{EpicID: task.ID, Title: ptr("x")},
			wantErr: domain.ErrInvalidKind,
		},
	}

	uc := NewEditEpic(repo, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, _ := repo.Peek(epic.ID)
	assert.Equal(t, "Release", stored.Base().Title)
}
