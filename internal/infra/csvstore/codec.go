package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/task-tracker/internal/domain"
)

// Header is the first record of every stream.
var Header = []string{"id", "type", "title", "status", "description", "epic", "duration", "startTime"}

// Column positions.
const (
	colID = iota
	colType
	colTitle
	colStatus
	colDescription
	colEpic
	colDuration
	colStart
)

// minFields is the shortest record accepted.
const minFields = colDescription + 1

// Accepted start time layouts. The first one is used for writing.
var timeLayouts = []string{domain.DefaultRecordTimeForm, "2006-01-02T15:04"}

// Encoder writes a state as a record stream.
type Encoder struct {
	w   *csv.Writer
	loc *time.Location
}

// NewEncoder returns an Encoder writing to w. Times are written as local
// wall clock without a zone.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: csv.NewWriter(w), loc: time.Local}
}

// Encode writes the header followed by tasks, epics and subtasks.
// History and the ID counter are not part of the stream.
func (e *Encoder) Encode(state *domain.State) error {
	if err := e.w.Write(Header); err != nil {
		return err
	}
	if state != nil {
		for _, t := range state.Tasks {
			if err := e.w.Write(e.record(t, domain.KindTask, "")); err != nil {
				return err
			}
		}
		for _, ep := range state.Epics {
			// Epic schedule is derived from subtasks on load.
			rec := []string{strconv.Itoa(ep.ID), string(domain.KindEpic), ep.Title, string(ep.Status), ep.Description, "", "", ""}
			if err := e.w.Write(rec); err != nil {
				return err
			}
		}
		for _, st := range state.Subtasks {
			if err := e.w.Write(e.record(&st.Task, domain.KindSubtask, strconv.Itoa(st.EpicID))); err != nil {
				return err
			}
		}
	}
	e.w.Flush()
	return e.w.Error()
}

func (e *Encoder) record(t *domain.Task, kind domain.Kind, epic string) []string {
	var duration, start string
	if t.Duration != nil {
		duration = strconv.FormatInt(int64(*t.Duration/time.Minute), 10)
	}
	if t.Start != nil {
		start = t.Start.In(e.loc).Format(timeLayouts[0])
	}
	return []string{strconv.Itoa(t.ID), string(kind), t.Title, string(t.Status), t.Description, epic, duration, start}
}

// Decoder reads a record stream into a state.
type Decoder struct {
	r   *csv.Reader
	loc *time.Location

	// Skipped describes every record dropped by the last Decode.
	Skipped []string
}

// NewDecoder returns a Decoder reading from r. Times without a zone are
// read as local wall clock.
func NewDecoder(r io.Reader) *Decoder {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return &Decoder{r: cr, loc: time.Local}
}

// Decode reads the whole stream. The first record is the header and is not
// interpreted. Blank lines are ignored.
//
// A record with fewer than five fields or an unparseable ID fails the whole
// decode with ErrMalformedRecord. Records with an unknown type, a subtask
// without a parseable epic, or an unparseable status, duration or start time
// are dropped and listed in Skipped.
func (d *Decoder) Decode() (*domain.State, error) {
	d.Skipped = nil
	state := &domain.State{}
	header := true

	for {
		rec, err := d.r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)
		}
		if header {
			header = false
			continue
		}
		if isBlank(rec) {
			continue
		}
		line, _ := d.r.FieldPos(0)

		if len(rec) < minFields {
			return nil, fmt.Errorf("%w: line %d: %d fields, want at least %d",
				domain.ErrMalformedRecord, line, len(rec), minFields)
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[colID]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: id %q", domain.ErrMalformedRecord, line, rec[colID])
		}

		if reason := d.decodeRecord(state, id, rec); reason != "" {
			d.Skipped = append(d.Skipped, fmt.Sprintf("line %d: %s", line, reason))
		}
	}

	state.Skipped = d.Skipped
	return state, nil
}

// decodeRecord appends the entity described by rec to state.
// It returns a non-empty reason when the record is dropped.
func (d *Decoder) decodeRecord(state *domain.State, id int, rec []string) string {
	status, err := domain.ParseStatus(rec[colStatus])
	if err != nil {
		return fmt.Sprintf("status %q", rec[colStatus])
	}
	task := domain.Task{
		ID:          id,
		Title:       rec[colTitle],
		Description: rec[colDescription],
		Status:      status,
	}

	kind := domain.Kind(strings.TrimSpace(rec[colType]))
	if kind == domain.KindEpic {
		epic := domain.NewEpic(task.Title, task.Description)
		epic.ID = id
		epic.Status = status
		state.Epics = append(state.Epics, epic)
		return ""
	}
	if kind != domain.KindTask && kind != domain.KindSubtask {
		return fmt.Sprintf("unknown type %q", rec[colType])
	}

	if v := field(rec, colDuration); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes < 0 {
			return fmt.Sprintf("duration %q", v)
		}
		task.Duration = domain.DurationPtr(time.Duration(minutes) * time.Minute)
	}
	if v := field(rec, colStart); v != "" {
		start, err := d.parseTime(v)
		if err != nil {
			return fmt.Sprintf("start time %q", v)
		}
		task.Start = &start
	}

	if kind == domain.KindTask {
		state.Tasks = append(state.Tasks, &task)
		return ""
	}

	v := field(rec, colEpic)
	if v == "" {
		return "subtask without epic"
	}
	epicID, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Sprintf("epic %q", v)
	}
	state.Subtasks = append(state.Subtasks, &domain.Subtask{Task: task, EpicID: epicID})
	return ""
}

func (d *Decoder) parseTime(v string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, v, d.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// isBlank reports whether rec comes from a line holding only whitespace.
func isBlank(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}

// field returns the trimmed value at i, or "" when the record is shorter.
func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
