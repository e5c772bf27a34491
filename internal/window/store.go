package window

import (
	"fmt"
	"sort"
)

// Store maps window ids to records. Records are held and handed out by
// value, so a caller can never mutate store state through a returned record.
//
// Store is not safe for concurrent use; its owner serializes access.
type Store struct {
	records map[string]Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Open inserts a new record.
func (s *Store) Open(rec Record) (Record, error) {
	if _, exists := s.records[rec.ID]; exists {
		return Record{}, fmt.Errorf("open %q: %w", rec.ID, ErrExists)
	}
	s.records[rec.ID] = rec
	return rec, nil
}

// Close removes the record entirely.
func (s *Store) Close(id string) error {
	if _, exists := s.records[id]; !exists {
		return fmt.Errorf("close %q: %w", id, ErrNotFound)
	}
	delete(s.records, id)
	return nil
}

// Patch replaces the record for id with a copy that has p applied.
// On an unknown id nothing changes and ErrNotFound is returned.
func (s *Store) Patch(id string, p Patch) (Record, error) {
	rec, exists := s.records[id]
	if !exists {
		return Record{}, fmt.Errorf("patch %q: %w", id, ErrNotFound)
	}
	rec = p.apply(rec)
	s.records[id] = rec
	return rec, nil
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (Record, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Len returns the number of open windows.
func (s *Store) Len() int {
	return len(s.records)
}

// Snapshot returns every record ordered by ascending z (paint order).
// Ties, which the allocator never produces, fall back to id order.
func (s *Store) Snapshot() []Record {
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].ID < out[j].ID
	})
	return out
}
