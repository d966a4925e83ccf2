package memstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/task-tracker/internal/domain"
)

func TestStore_SnapshotRestoreRoundTrip(t *testing.T) {
	// Setup
	src := New()
	task, err := src.CreateTask(scheduledTask("a", at(9), time.Hour))
	require.NoError(t, err)
	e := mustEpic(t, src)
	st, err := src.CreateSubtask(scheduledSubtask(e.ID, domain.StatusDone, at(10), 2*time.Hour))
	require.NoError(t, err)
	_, _ = src.GetSubtask(st.ID)
	_, _ = src.GetTask(task.ID)

	// Execute
	dst := New()
	require.NoError(t, dst.Restore(src.Snapshot()))

	// Assert
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
	assert.Equal(t, []int{st.ID, task.ID}, historyIDs(t, dst))

	epic, err := dst.GetEpic(e.ID)
	require.NoError(t, err)
	assert.True(t, epic.HasSubtask(st.ID))
	assert.Equal(t, domain.StatusDone, epic.Status)
	assert.Equal(t, at(12), *epic.End())

	prioritized, _ := dst.Prioritized()
	assert.Equal(t, []int{task.ID, st.ID}, entityIDs(prioritized))

	next, err := dst.CreateTask(newTask("next"))
	require.NoError(t, err)
	assert.Equal(t, 4, next.ID)
}

func TestStore_Restore_RebuildsEpicMembership(t *testing.T) {
	s := New()
	state := &domain.State{
		Epics: []*domain.Epic{{Task: domain.Task{ID: 1, Title: "epic", Status: domain.StatusDone}}},
		Subtasks: []*domain.Subtask{
			{Task: domain.Task{ID: 2, Status: domain.StatusNew}, EpicID: 1},
			{Task: domain.Task{ID: 3, Status: domain.StatusDone}, EpicID: 1},
			{Task: domain.Task{ID: 4, Status: domain.StatusDone}, EpicID: 9},
		},
	}

	require.NoError(t, s.Restore(state))

	epic, err := s.GetEpic(1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, epic.SubtaskList())
	assert.Equal(t, domain.StatusInProgress, epic.Status)
	_, err = s.GetSubtask(4)
	assert.ErrorIs(t, err, domain.ErrNotFound, "orphan subtask is dropped")
}

func TestStore_Restore_NextIDFollowsLargestID(t *testing.T) {
	s := New()

	require.NoError(t, s.Restore(&domain.State{
		Tasks: []*domain.Task{{ID: 7, Title: "a"}},
	}))
	created, err := s.CreateTask(newTask("b"))
	require.NoError(t, err)
	assert.Equal(t, 8, created.ID)

	require.NoError(t, s.Restore(&domain.State{
		Tasks:  []*domain.Task{{ID: 7, Title: "a"}},
		NextID: 20,
	}))
	created, err = s.CreateTask(newTask("c"))
	require.NoError(t, err)
	assert.Equal(t, 20, created.ID)
}

func TestStore_Restore_DropsUnknownHistoryRefs(t *testing.T) {
	s := New()

	require.NoError(t, s.Restore(&domain.State{
		Tasks: []*domain.Task{{ID: 1, Title: "a"}},
		History: []domain.Ref{
			{Kind: domain.KindTask, ID: 1},
			{Kind: domain.KindEpic, ID: 1},
			{Kind: domain.KindTask, ID: 5},
		},
	}))

	assert.Equal(t, []int{1}, historyIDs(t, s))
}

func TestStore_Restore_FailureKeepsState(t *testing.T) {
	tests := []struct {
		name  string
		state *domain.State
	}{
		{
			name: "duplicate id",
			state: &domain.State{
				Tasks: []*domain.Task{{ID: 1}},
				Epics: []*domain.Epic{{Task: domain.Task{ID: 1}}},
			},
		},
		{
			name:  "non-positive id",
			state: &domain.State{Tasks: []*domain.Task{{ID: 0}}},
		},
		{
			name:  "invalid status",
			state: &domain.State{Tasks: []*domain.Task{{ID: 1, Status: "LATER"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			kept, err := s.CreateTask(newTask("kept"))
			require.NoError(t, err)
			before := s.Snapshot()

			err = s.Restore(tt.state)

			assert.ErrorIs(t, err, domain.ErrMalformedRecord)
			assert.Equal(t, before, s.Snapshot())
			_, err = s.Peek(kept.ID)
			assert.NoError(t, err)
		})
	}
}

func TestStore_Restore_Nil(t *testing.T) {
	s := New()
	_, err := s.CreateTask(newTask("a"))
	require.NoError(t, err)

	require.NoError(t, s.Restore(nil))

	tasks, _ := s.Tasks()
	assert.Empty(t, tasks)
}
