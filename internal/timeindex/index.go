// Package timeindex orders scheduled entities by start time and answers
// overlap queries.
package timeindex

import (
	"cmp"
	"time"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/runoshun/task-tracker/internal/domain"
)

// key orders entries by (start, id).
type key struct {
	start time.Time
	id    int
}

func compareKeys(a, b interface{}) int {
	ka := a.(key)
	kb := b.(key)
	if c := ka.start.Compare(kb.start); c != 0 {
		return c
	}
	return cmp.Compare(ka.id, kb.id)
}

// Index holds scheduled entities ordered by (start time, identifier).
// Entities without a start time are never inserted. It is not safe for
// concurrent use; the repository that owns it serializes access.
type Index struct {
	tree *treemap.Map
	keys map[int]key // id -> current key, for removal by id
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		tree: treemap.NewWith(compareKeys),
		keys: make(map[int]key),
	}
}

// Overlaps reports whether the [start, end) intervals of a and b intersect.
// Both need a start time and a duration. Touching endpoints do not overlap,
// and an entity never overlaps itself.
func Overlaps(a, b domain.Entity) bool {
	if a == nil || b == nil || a.Identity() == b.Identity() {
		return false
	}
	aStart, aEnd, ok := a.Span()
	if !ok {
		return false
	}
	bStart, bEnd, ok := b.Span()
	if !ok {
		return false
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Insert adds e to the index, replacing any entry with the same identifier.
// Entities without a start time are ignored.
func (x *Index) Insert(e domain.Entity) {
	start, ok := e.StartTime()
	if !ok {
		return
	}
	x.Remove(e.Identity())
	k := key{start: start, id: e.Identity()}
	x.tree.Put(k, e)
	x.keys[k.id] = k
}

// Remove deletes the entry for id, if present.
func (x *Index) Remove(id int) {
	k, ok := x.keys[id]
	if !ok {
		return
	}
	x.tree.Remove(k)
	delete(x.keys, id)
}

// Contains reports whether id is indexed.
func (x *Index) Contains(id int) bool {
	_, ok := x.keys[id]
	return ok
}

// HasConflict reports whether candidate overlaps any indexed entity other
// than itself. The scan stops at the first entry starting at or after the
// candidate's end.
func (x *Index) HasConflict(candidate domain.Entity) bool {
	_, end, ok := candidate.Span()
	if !ok {
		return false
	}
	it := x.tree.Iterator()
	for it.Next() {
		if !it.Key().(key).start.Before(end) {
			break
		}
		if Overlaps(candidate, it.Value().(domain.Entity)) {
			return true
		}
	}
	return false
}

// All returns the indexed entities in ascending (start, id) order.
func (x *Index) All() []domain.Entity {
	out := make([]domain.Entity, 0, x.tree.Size())
	it := x.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(domain.Entity))
	}
	return out
}

// Range returns entities with a start and an end that lie entirely within
// [from, to], in ascending order.
func (x *Index) Range(from, to time.Time) []domain.Entity {
	var out []domain.Entity
	it := x.tree.Iterator()
	for it.Next() {
		k := it.Key().(key)
		if k.start.After(to) {
			break
		}
		if k.start.Before(from) {
			continue
		}
		e := it.Value().(domain.Entity)
		if _, end, ok := e.Span(); ok && !end.After(to) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of indexed entities.
func (x *Index) Len() int {
	return x.tree.Size()
}

// Clear removes all entries.
func (x *Index) Clear() {
	x.tree.Clear()
	x.keys = make(map[int]key)
}
