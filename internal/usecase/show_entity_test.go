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

// seedRelease creates one plain task and one epic with two scheduled subtasks.
func seedRelease(t *testing.T, repo domain.TaskRepository) (task *domain.Task, epic *domain.Epic, subs []*domain.Subtask) {
	t.Helper()
	task, err := repo.CreateTask(&domain.Task{Title: "Triage inbox", Description: "daily"})
	require.NoError(t, err)
	epic, err = repo.CreateEpic(domain.NewEpic("Release", "ship v2"))
	require.NoError(t, err)
	build, err := repo.CreateSubtask(&domain.Subtask{
		Task:   domain.Task{Title: "Build", Status: domain.StatusDone, Start: ptr(at(10, 0)), Duration: ptr(2 * time.Hour)},
		EpicID: epic.ID,
	})
	require.NoError(t, err)
	ship, err := repo.CreateSubtask(&domain.Subtask{
		Task:   domain.Task{Title: "Ship", Start: ptr(at(13, 0)), Duration: ptr(time.Hour)},
		EpicID: epic.ID,
	})
	require.NoError(t, err)
	return task, epic, []*domain.Subtask{build, ship}
}

func TestShowEntity_Execute_Epic(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	_, epic, subs := seedRelease(t, repo)
	uc := NewShowEntity(repo)

	// Execute
	out, err := uc.Execute(context.Background(), ShowEntityInput{ID: epic.ID})

	// Assert
	require.NoError(t, err)
	got, ok := out.Entity.(*domain.Epic)
	require.True(t, ok)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, at(10, 0), *got.Start)
	assert.Equal(t, at(14, 0), *got.EndTime)
	assert.Equal(t, 3*time.Hour, *got.Duration)
	require.Len(t, out.Subtasks, 2)
	assert.Equal(t, subs[0].ID, out.Subtasks[0].ID)
	assert.Nil(t, out.Epic)
}

func TestShowEntity_Execute_SubtaskIncludesEpic(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	_, epic, subs := seedRelease(t, repo)

	out, err := NewShowEntity(repo).Execute(context.Background(), ShowEntityInput{ID: subs[1].ID})

	require.NoError(t, err)
	assert.Equal(t, domain.KindSubtask, out.Entity.Kind())
	require.NotNil(t, out.Epic)
	assert.Equal(t, epic.ID, out.Epic.ID)
}

func TestShowEntity_Execute_RecordsVisit(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task, epic, _ := seedRelease(t, repo)
	uc := NewShowEntity(repo)

	// Execute: visit(task), visit(epic), visit(task)
	for _, id := range []int{task.ID, epic.ID, task.ID} {
		_, err := uc.Execute(context.Background(), ShowEntityInput{ID: id})
		require.NoError(t, err)
	}

	// Assert
	history, err := repo.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, epic.ID, history[0].Identity())
	assert.Equal(t, task.ID, history[1].Identity())
}

func TestShowEntity_Execute_Errors(t *testing.T) {
	// Setup
	repo := testutil.NewMockTaskRepository()
	task, _, _ := seedRelease(t, repo)
	uc := NewShowEntity(repo)

	// Execute
	_, missErr := uc.Execute(context.Background(), ShowEntityInput{ID: 99})
	_, kindErr := uc.Execute(context.Background(), ShowEntityInput{ID: task.ID, Kind: domain.KindEpic})

	// Assert
	assert.ErrorIs(t, missErr, domain.ErrNotFound)
	assert.ErrorIs(t, kindErr, domain.ErrInvalidKind)
	history, err := repo.History()
	require.NoError(t, err)
	assert.Empty(t, history, "failed lookups have no side effects")
}

func TestListEntities_Execute_2(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task, epic, subs := seedRelease(t, repo)

	tests := []struct {
		name string
		in   ListEntitiesInput
		want []int
	}{
		{name: "all", in: ListEntitiesInput{}, want: []int{task.ID, epic.ID, subs[0].ID, subs[1].ID}},
		{name: "kind", in: ListEntitiesInput{Kinds: []domain.Kind{domain.KindSubtask}}, want: []int{subs[0].ID, subs[1].ID}},
		{name: "kinds", in: ListEntitiesInput{Kinds: []domain.Kind{domain.KindTask, domain.KindEpic}}, want: []int{task.ID, epic.ID}},
		{name: "status", in: ListEntitiesInput{Statuses: []domain.Status{domain.StatusDone}}, want: []int{subs[0].ID}},
		{name: "epic", in: ListEntitiesInput{EpicID: ptr(epic.ID)}, want: []int{subs[0].ID, subs[1].ID}},
		{name: "query title", in: ListEntitiesInput{Query: "TRIAGE"}, want: []int{task.ID}},
		{name: "query title or description", in: ListEntitiesInput{Query: "SHIP"}, want: []int{epic.ID, subs[1].ID}},
		{name: "query description", in: ListEntitiesInput{Query: "ship v2"}, want: []int{epic.ID}},
		{name: "scheduled", in: ListEntitiesInput{Scheduled: ptr(true)}, want: []int{epic.ID, subs[0].ID, subs[1].ID}},
		{name: "unscheduled", in: ListEntitiesInput{Scheduled: ptr(false)}, want: []int{task.ID}},
		{name: "combined", in: ListEntitiesInput{Kinds: []domain.Kind{domain.KindSubtask}, Statuses: []domain.Status{domain.StatusNew}}, want: []int{subs[1].ID}},
		{name: "no match", in: ListEntitiesInput{Query: "nothing"}, want: []int{}},
	}

	uc := NewListEntities(repo)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), tt.in)
			require.NoError(t, err)

			ids := make([]int, 0, len(out.Entities))
			for _, e := range out.Entities {
				ids = append(ids, e.Identity())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListEntities_Execute_ListError_2(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.ListErr = domain.ErrPersistence

	_, err := NewListEntities(repo).Execute(context.Background(), ListEntitiesInput{})

	assert.ErrorIs(t, err, domain.ErrPersistence)
}
