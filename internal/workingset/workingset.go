// Package workingset holds the in-memory view of the current order: an
// insertion-ordered mapping from photo id to the durable record plus its
// preview handle. It is the sole holder of preview handles and releases
// them on every removal path.
package workingset

import (
	"photo-print-orders/internal/models"
	"photo-print-orders/internal/preview"
)

// Entry is one photo in the working set: the durable record augmented
// with its transient preview handle. Preview may be nil when derivation
// failed or was skipped.
type Entry struct {
	Item    models.PhotoOrderItem
	Preview preview.Handle
}

// Set is an insertion-ordered map keyed by photo id.
type Set struct {
	order   []string
	entries map[string]Entry
}

func New() *Set {
	return &Set{entries: make(map[string]Entry)}
}

// Upsert inserts entry or replaces the entry with the same id, keeping
// its original position. Replacing does not release the old preview:
// edits carry the handle forward on the updated entry.
func (s *Set) Upsert(entry Entry) {
	id := entry.Item.ID
	if _, ok := s.entries[id]; !ok {
		s.order = append(s.order, id)
	}
	s.entries[id] = entry
}

func (s *Set) Get(id string) (Entry, bool) {
	entry, ok := s.entries[id]
	return entry, ok
}

// Remove releases the entry's preview handle and deletes the entry.
// Unknown ids are ignored.
func (s *Set) Remove(id string) {
	entry, ok := s.entries[id]
	if !ok {
		return
	}
	if entry.Preview != nil {
		entry.Preview.Release()
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns a snapshot of the entries in insertion order. Mutating the
// set after the call does not affect the returned slice.
func (s *Set) All() []Entry {
	entries := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.entries[id])
	}
	return entries
}

func (s *Set) Len() int {
	return len(s.order)
}

// Clear releases every preview handle and empties the set.
func (s *Set) Clear() {
	for _, entry := range s.entries {
		if entry.Preview != nil {
			entry.Preview.Release()
		}
	}
	s.order = nil
	s.entries = make(map[string]Entry)
}
