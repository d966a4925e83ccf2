package tui

import (
	"time"

	"github.com/runoshun/task-tracker/internal/domain"
	"github.com/runoshun/task-tracker/internal/usecase"
)

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgEntitiesLoaded is sent when all entities are loaded from the repository.
type MsgEntitiesLoaded struct {
	Entities []domain.Entity
}

func (MsgEntitiesLoaded) sealed() {}

// MsgScheduleLoaded is sent when the prioritized schedule is loaded.
type MsgScheduleLoaded struct {
	Entries []domain.Entity
	Planned time.Duration
}

func (MsgScheduleLoaded) sealed() {}

// MsgHistoryLoaded is sent when the visit history is loaded.
type MsgHistoryLoaded struct {
	Entities []domain.Entity
}

func (MsgHistoryLoaded) sealed() {}

// MsgDetailLoaded is sent when an entity is opened in the detail pane.
type MsgDetailLoaded struct {
	Detail *usecase.ShowEntityOutput
}

func (MsgDetailLoaded) sealed() {}

// MsgEntityDeleted is sent when an entity is deleted.
type MsgEntityDeleted struct {
	Cascaded []int
	ID       int
}

func (MsgEntityDeleted) sealed() {}

// MsgReloaded is sent when the store has been read again.
type MsgReloaded struct{}

func (MsgReloaded) sealed() {}

// MsgError is sent when an error occurs.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
