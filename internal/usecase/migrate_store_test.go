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

func migrationSourceState() *domain.State {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	epic := domain.NewEpic("Release", "")
	epic.ID = 2
	return &domain.State{
		Tasks: []*domain.Task{
			{ID: 1, Title: "Standup", Status: domain.StatusNew, Start: &start, Duration: domain.DurationPtr(15 * time.Minute)},
		},
		Epics: []*domain.Epic{epic},
		Subtasks: []*domain.Subtask{
			{Task: domain.Task{ID: 3, Title: "Build", Status: domain.StatusDone}, EpicID: 2},
		},
		History: []domain.Ref{{Kind: domain.KindTask, ID: 1}},
		Skipped: []string{"line 7: malformed record"},
		NextID:  4,
	}
}

func TestMigrateStore_Execute_CopiesState(t *testing.T) {
	// Setup
	source := testutil.NewMockStateStore()
	source.State = migrationSourceState()
	dest := testutil.NewMockStateStore()
	destInit := &testutil.MockStoreInitializer{}
	logger := &testutil.MockLogger{}

	// Execute
	uc := NewMigrateStore(source, dest, destInit, logger)
	out, err := uc.Execute(context.Background(), MigrateStoreInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.Tasks)
	assert.Equal(t, 1, out.Epics)
	assert.Equal(t, 1, out.Subtasks)
	assert.Equal(t, []string{"line 7: malformed record"}, out.Skipped)
	assert.False(t, out.Unchanged)

	assert.True(t, destInit.InitCalled)
	assert.Equal(t, 1, dest.SaveCalls)
	assert.Equal(t, 4, dest.State.NextID)
	assert.Equal(t, []domain.Ref{{Kind: domain.KindTask, ID: 1}}, dest.State.History)
	assert.Empty(t, dest.State.Skipped, "skipped records are never persisted")
	assert.Len(t, logger.ByLevel("INFO"), 1)
}

func TestMigrateStore_Execute_SkipsIdentical(t *testing.T) {
	source := testutil.NewMockStateStore()
	source.State = migrationSourceState()
	dest := testutil.NewMockStateStore()
	dest.State = migrationSourceState()
	dest.State.Tasks[0].Start = domain.TimePtr(dest.State.Tasks[0].Start.In(time.Local))
	destInit := &testutil.MockStoreInitializer{Initialized: true}

	out, err := NewMigrateStore(source, dest, destInit, nil).Execute(context.Background(), MigrateStoreInput{})

	require.NoError(t, err)
	assert.True(t, out.Unchanged)
	assert.Zero(t, dest.SaveCalls)
	assert.False(t, destInit.InitCalled)
}

func TestMigrateStore_Execute_Conflict(t *testing.T) {
	// Setup
	source := testutil.NewMockStateStore()
	source.State = migrationSourceState()
	dest := testutil.NewMockStateStore()
	dest.State = &domain.State{Tasks: []*domain.Task{{ID: 1, Title: "Other", Status: domain.StatusNew}}}
	destInit := &testutil.MockStoreInitializer{Initialized: true}
	uc := NewMigrateStore(source, dest, destInit, nil)

	// Execute
	_, err := uc.Execute(context.Background(), MigrateStoreInput{})

	// Assert
	require.ErrorIs(t, err, domain.ErrMigrationConflict)
	assert.Zero(t, dest.SaveCalls)

	out, err := uc.Execute(context.Background(), MigrateStoreInput{Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, dest.SaveCalls)
	assert.Equal(t, 1, out.Subtasks)
	assert.Equal(t, "Standup", dest.State.Tasks[0].Title)
}

func TestMigrateStore_Execute_EmptyDestinationIsOverwritten(t *testing.T) {
	source := testutil.NewMockStateStore()
	source.State = migrationSourceState()
	dest := testutil.NewMockStateStore()
	destInit := &testutil.MockStoreInitializer{Initialized: true}

	_, err := NewMigrateStore(source, dest, destInit, nil).Execute(context.Background(), MigrateStoreInput{})

	require.NoError(t, err)
	assert.Equal(t, 1, dest.SaveCalls)
}

func TestMigrateStore_Execute_Errors(t *testing.T) {
	t.Run("source not initialized", func(t *testing.T) {
		source := testutil.NewMockStateStore()
		source.LoadErr = domain.ErrNotInitialized

		_, err := NewMigrateStore(source, testutil.NewMockStateStore(), &testutil.MockStoreInitializer{}, nil).
			Execute(context.Background(), MigrateStoreInput{})

		assert.ErrorIs(t, err, domain.ErrNotInitialized)
	})

	t.Run("destination init fails", func(t *testing.T) {
		destInit := &testutil.MockStoreInitializer{InitErr: assert.AnError}

		_, err := NewMigrateStore(testutil.NewMockStateStore(), testutil.NewMockStateStore(), destInit, nil).
			Execute(context.Background(), MigrateStoreInput{})

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("save fails", func(t *testing.T) {
		dest := testutil.NewMockStateStore()
		dest.SaveErr = assert.AnError

		_, err := NewMigrateStore(testutil.NewMockStateStore(), dest, &testutil.MockStoreInitializer{}, nil).
			Execute(context.Background(), MigrateStoreInput{})

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("nil stores", func(t *testing.T) {
		_, err := NewMigrateStore(nil, nil, &testutil.MockStoreInitializer{}, nil).
			Execute(context.Background(), MigrateStoreInput{})

		assert.Error(t, err)
	})
}
