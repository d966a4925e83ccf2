// Package history keeps the recency-ordered list of visited entities.
//
// Each identifier occupies at most one slot. Visiting an identifier again
// moves it to the most-recent end. Both visiting and forgetting are O(1):
// the list is an ordered map (hash index over a doubly linked list).
package history

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/runoshun/task-tracker/internal/domain"
)

// History is the recency list. It is not safe for concurrent use; the
// repository that owns it serializes access.
type History struct {
	entries *orderedmap.OrderedMap[int, domain.Ref]
}

// New creates an empty History.
func New() *History {
	return &History{
		entries: orderedmap.New[int, domain.Ref](),
	}
}

// Visit records a visit to e. A nil entity is ignored.
func (h *History) Visit(e domain.Entity) {
	if e == nil {
		return
	}
	h.VisitRef(domain.RefOf(e))
}

// VisitRef records a visit by reference.
func (h *History) VisitRef(ref domain.Ref) {
	h.entries.Delete(ref.ID)
	h.entries.Set(ref.ID, ref)
}

// Forget removes the entry for id, if present.
func (h *History) Forget(id int) {
	h.entries.Delete(id)
}

// Contains reports whether id is in the history.
func (h *History) Contains(id int) bool {
	_, ok := h.entries.Get(id)
	return ok
}

// Snapshot returns the references in recency order, oldest first.
// The returned slice is owned by the caller.
func (h *History) Snapshot() []domain.Ref {
	refs := make([]domain.Ref, 0, h.entries.Len())
	for pair := h.entries.Oldest(); pair != nil; pair = pair.Next() {
		refs = append(refs, pair.Value)
	}
	return refs
}

// Len returns the number of entries.
func (h *History) Len() int {
	return h.entries.Len()
}

// Clear removes all entries.
func (h *History) Clear() {
	h.entries = orderedmap.New[int, domain.Ref]()
}
