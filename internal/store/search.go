// internal/store/search.go
package store

import (
	"errors"

	"github.com/tamzrod/downtime-log/internal/record"
)

// Every search below is a bounded scan of at most N slots and returns
// ErrNotFound instead of looping on a corrupted flag pattern.

// ---- traversal primitives ----

// nextCompletedOrNone makes one hop forward (with wraparound) from `from`
// and reports whether that slot is COMPLETE. The cursor is not touched.
func (s *Store) nextCompletedOrNone(from int) (int, bool, error) {
	idx := s.next(from)
	f, err := s.flagAt(idx)
	if err != nil {
		return 0, false, err
	}
	return idx, f == record.FlagComplete, nil
}

// prevCompletedOrNone is the backward twin of nextCompletedOrNone.
func (s *Store) prevCompletedOrNone(from int) (int, bool, error) {
	idx := s.prev(from)
	f, err := s.flagAt(idx)
	if err != nil {
		return 0, false, err
	}
	return idx, f == record.FlagComplete, nil
}

// ---- single-hop cursor moves ----

// NextCompleted moves the cursor one slot forward if that slot is COMPLETE.
// Otherwise it returns ErrNotFound and the cursor stays put.
func (s *Store) NextCompleted() (int, error) {
	idx, ok, err := s.nextCompletedOrNone(s.cursor)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotFound
	}
	s.cursor = idx
	return idx, nil
}

// PrevCompleted moves the cursor one slot backward if that slot is COMPLETE.
func (s *Store) PrevCompleted() (int, error) {
	idx, ok, err := s.prevCompletedOrNone(s.cursor)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotFound
	}
	s.cursor = idx
	return idx, nil
}

// ---- searches ----

// FindInProgress scans from slot 0 for the IN_PROGRESS slot.
// On success the cursor points at it.
func (s *Store) FindInProgress() (int, error) {
	for slot := 0; slot < s.slots; slot++ {
		idx := slot * record.Size
		f, err := s.flagAt(idx)
		if err != nil {
			return 0, err
		}
		if f == record.FlagInProgress {
			s.cursor = idx
			return idx, nil
		}
	}
	return 0, ErrNotFound
}

// FindNewestCompleted returns the last slot of the COMPLETE arc.
//
// Phase 1 walks from slot 0 to the first COMPLETE slot, which lies inside
// the arc. Phase 2 follows the arc forward until the next slot is not
// COMPLETE.
func (s *Store) FindNewestCompleted() (int, error) {
	idx := 0
	f, err := s.flagAt(idx)
	if err != nil {
		return 0, err
	}
	found := f == record.FlagComplete

	for hops := 1; !found && hops < s.slots; hops++ {
		n, ok, err := s.nextCompletedOrNone(idx)
		if err != nil {
			return 0, err
		}
		idx = n
		found = ok
	}
	if !found {
		return 0, ErrNotFound
	}

	for hops := 1; hops < s.slots; hops++ {
		n, ok, err := s.nextCompletedOrNone(idx)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		idx = n
	}

	s.cursor = idx
	return idx, nil
}

// FindOldestCompleted returns the first COMPLETE slot after the
// IN_PROGRESS slot in ring order. Without an IN_PROGRESS slot the log is
// inconclusive and ErrNotFound is returned.
func (s *Store) FindOldestCompleted() (int, error) {
	idx, err := s.FindInProgress()
	if err != nil {
		return 0, err
	}

	for hops := 1; hops < s.slots; hops++ {
		n, ok, err := s.nextCompletedOrNone(idx)
		if err != nil {
			return 0, err
		}
		if ok {
			s.cursor = n
			return n, nil
		}
		idx = n
	}
	return 0, ErrNotFound
}

// History returns the completed records oldest first.
// The buffered value is left untouched.
func (s *Store) History() ([]record.Event, error) {
	idx, err := s.FindOldestCompleted()
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []record.Event
	for n := 0; n < s.slots; n++ {
		rec, err := s.readSlot(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, rec.Event)

		idx, err = s.NextCompleted()
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
