package csvstore

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/task-tracker/internal/domain"
)

var start = time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)

func decode(t *testing.T, input string) (*domain.State, *Decoder, error) {
	t.Helper()
	dec := NewDecoder(strings.NewReader(input))
	state, err := dec.Decode()
	return state, dec, err
}

func TestEncoder_Header(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewEncoder(&buf).Encode(&domain.State{}))

	assert.Equal(t, "id,type,title,status,description,epic,duration,startTime\n", buf.String())
}

func TestEncoder_Records(t *testing.T) {
	var buf bytes.Buffer
	epic := domain.NewEpic("Release", "ship it")
	epic.ID = 2
	state := &domain.State{
		Tasks: []*domain.Task{{
			ID:       1,
			Title:    "Write, review",
			Status:   domain.StatusNew,
			Start:    domain.TimePtr(start),
			Duration: domain.DurationPtr(90 * time.Minute),
		}},
		Epics:    []*domain.Epic{epic},
		Subtasks: []*domain.Subtask{{Task: domain.Task{ID: 3, Title: "Tag", Status: domain.StatusDone}, EpicID: 2}},
	}

	require.NoError(t, NewEncoder(&buf).Encode(state))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `1,TASK,"Write, review",NEW,,,90,2025-03-10T10:00:00`, lines[1])
	assert.Equal(t, "2,EPIC,Release,NEW,ship it,,,", lines[2])
	assert.Equal(t, "3,SUBTASK,Tag,DONE,,2,,", lines[3])
}

func TestCodec_RoundTrip(t *testing.T) {
	// Setup
	epic := domain.NewEpic("Release", "multi\nline")
	epic.ID = 2
	in := &domain.State{
		Tasks: []*domain.Task{{
			ID:          1,
			Title:       `quoted "title"`,
			Description: "a, b",
			Status:      domain.StatusInProgress,
			Start:       domain.TimePtr(start),
			Duration:    domain.DurationPtr(time.Hour),
		}},
		Epics: []*domain.Epic{epic},
		Subtasks: []*domain.Subtask{{
			Task:   domain.Task{ID: 3, Title: "Tag", Status: domain.StatusDone, Duration: domain.DurationPtr(15 * time.Minute)},
			EpicID: 2,
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(in))

	// Execute
	out, dec, err := decode(t, buf.String())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, dec.Skipped)
	require.Len(t, out.Tasks, 1)
	require.Len(t, out.Epics, 1)
	require.Len(t, out.Subtasks, 1)

	task := out.Tasks[0]
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, `quoted "title"`, task.Title)
	assert.Equal(t, "a, b", task.Description)
	assert.Equal(t, domain.StatusInProgress, task.Status)
	require.NotNil(t, task.Start)
	assert.True(t, task.Start.Equal(start))
	assert.Equal(t, time.Hour, *task.Duration)

	assert.Equal(t, "multi\nline", out.Epics[0].Description)
	assert.Equal(t, 2, out.Subtasks[0].EpicID)
	assert.Equal(t, 15*time.Minute, *out.Subtasks[0].Duration)
	assert.Nil(t, out.Subtasks[0].Start)
}

func TestDecoder_LegacyRecords(t *testing.T) {
	input := "id,type,name,status,description,epic\n" +
		"1,TASK,Task,NEW,Description,\n" +
		"2,EPIC,Epic,NEW,Epic description,\n" +
		"3,SUBTASK,Subtask,DONE,Sub description,2\n"

	state, dec, err := decode(t, input)

	require.NoError(t, err)
	assert.Empty(t, dec.Skipped)
	assert.Len(t, state.Tasks, 1)
	assert.Len(t, state.Epics, 1)
	require.Len(t, state.Subtasks, 1)
	assert.Equal(t, 2, state.Subtasks[0].EpicID)
}

func TestDecoder_MalformedRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few fields", "id,type\ncorrupted,data\n"},
		{"bad id", "header\nx,TASK,Task,NEW,Description,\n"},
		{"bare quote", "header\n1,TASK,ab\"c,NEW,d,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _, err := decode(t, tt.input)

			assert.ErrorIs(t, err, domain.ErrMalformedRecord)
			assert.Nil(t, state)
		})
	}
}

func TestDecoder_SkipsRecords(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{"unknown type", "1,STORY,Story,NEW,d,"},
		{"subtask without epic", "1,SUBTASK,Sub,NEW,d,"},
		{"subtask with bad epic", "1,SUBTASK,Sub,NEW,d,abc"},
		{"bad status", "1,TASK,Task,WAITING,d,"},
		{"bad duration", "1,TASK,Task,NEW,d,,ninety,"},
		{"negative duration", "1,TASK,Task,NEW,d,,-5,"},
		{"bad start time", "1,TASK,Task,NEW,d,,30,tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, dec, err := decode(t, "header\n"+tt.record+"\n2,TASK,Kept,NEW,d,\n")

			require.NoError(t, err)
			require.Len(t, dec.Skipped, 1)
			assert.Contains(t, dec.Skipped[0], "line 2")
			assert.Equal(t, dec.Skipped, state.Skipped)
			require.Len(t, state.Tasks, 1)
			assert.Equal(t, 2, state.Tasks[0].ID)
			assert.Empty(t, state.Subtasks)
		})
	}
}

func TestDecoder_BlankLinesAndEmptyStream(t *testing.T) {
	state, _, err := decode(t, "")
	require.NoError(t, err)
	assert.Empty(t, state.Tasks)

	state, _, err = decode(t, "header\n\n1,TASK,Task,NEW,d,\n\n")
	require.NoError(t, err)
	assert.Len(t, state.Tasks, 1)

	state, dec, err := decode(t, "header\n1,TASK,Task,NEW,d,\n   \n\t\n2,TASK,Other,NEW,d,\n")
	require.NoError(t, err)
	assert.Len(t, state.Tasks, 2)
	assert.Empty(t, dec.Skipped)
}

func TestDecoder_MinutePrecisionStart(t *testing.T) {
	state, _, err := decode(t, "header\n1,TASK,Task,new,d,,60,2025-03-10T10:00\n")

	require.NoError(t, err)
	require.Len(t, state.Tasks, 1)
	assert.True(t, state.Tasks[0].Start.Equal(start))
	assert.Equal(t, domain.StatusNew, state.Tasks[0].Status)
}
