package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrTimeConflict      = errors.New("time interval overlaps an existing entity")
	ErrInvalidReference  = errors.New("invalid epic reference")
	ErrPersistence       = errors.New("persistence failure")
	ErrMalformedRecord   = errors.New("malformed record")
	ErrNotInitialized    = errors.New("tracker not initialized (run 'tracker init' first)")
	ErrConfigExists      = errors.New("config file already exists")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidKind       = errors.New("invalid entity kind")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidDuration   = errors.New("duration must be a non-negative number of whole minutes")
	ErrConfigNil         = errors.New("config is nil")
	ErrMigrationTarget   = errors.New("destination is the current store")
	ErrMigrationConflict = errors.New("destination store already holds different data")
	ErrEmptyFile         = errors.New("file is empty")
	ErrNoEntriesInFile   = errors.New("no entries found in file")
	ErrInvalidDraft      = errors.New("invalid entry")
)

// Invalid reference variants. Both match ErrInvalidReference with errors.Is.
var (
	ErrEpicNotFound  = fmt.Errorf("%w: epic not found", ErrInvalidReference)
	ErrSelfReference = fmt.Errorf("%w: subtask cannot be its own epic", ErrInvalidReference)
)
