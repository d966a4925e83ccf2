package csvstore

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/task-tracker/internal/domain"
)

// Meta holds what the record stream cannot carry.
type Meta struct {
	History []domain.Ref `yaml:"history"`
	NextID  int          `yaml:"nextID"`
}

// EncodeMeta marshals the history and ID counter of state as YAML.
func EncodeMeta(state *domain.State) ([]byte, error) {
	m := Meta{NextID: 1}
	if state != nil {
		m.History = state.History
		m.NextID = max(state.NextID, 1)
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal meta: %w", domain.ErrPersistence, err)
	}
	return data, nil
}

// DecodeMeta unmarshals YAML metadata. Empty data yields zero values, so
// the ID counter is derived from the records.
func DecodeMeta(data []byte) (*Meta, error) {
	var m Meta
	if len(data) == 0 {
		return &m, nil
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode meta: %w", domain.ErrMalformedRecord, err)
	}
	return &m, nil
}

// Apply copies the metadata onto state.
func (m *Meta) Apply(state *domain.State) {
	state.History = m.History
	state.NextID = m.NextID
}
