// internal/store/write.go
package store

import (
	"bytes"
	"errors"
	"io"

	"github.com/tamzrod/downtime-log/internal/device"
	"github.com/tamzrod/downtime-log/internal/dump"
	"github.com/tamzrod/downtime-log/internal/record"
)

// CompleteCurrentAndStartNext finalizes the IN_PROGRESS slot with ev and
// opens the next slot as IN_PROGRESS carrying ev's timestamp and zero
// downtime. It is the only place COMPLETE records are created.
//
// Without an IN_PROGRESS slot the transition starts at slot 0, overwriting
// whatever lives there.
func (s *Store) CompleteCurrentAndStartNext(ev record.Event) error {
	idx, err := s.inProgressOrFallback("complete")
	if err != nil {
		return err
	}

	if err := s.writeSlot(idx, ev, record.FlagComplete); err != nil {
		return err
	}

	next := s.next(idx)
	start := record.Event{Timestamp: ev.Timestamp}
	if err := s.writeSlot(next, start, record.FlagInProgress); err != nil {
		return err
	}

	s.cursor = next
	s.staged = record.Stored{Event: start, Flag: record.FlagInProgress}

	s.log.Debug("record completed",
		"slot", idx/record.Size,
		"timestamp", ev.Timestamp,
		"downtime_min", ev.DowntimeMinutes,
		"next_slot", next/record.Size,
	)
	return nil
}

// OverwriteInProgress persists ev into the IN_PROGRESS slot in place.
// The cursor is not advanced and no slot is created.
func (s *Store) OverwriteInProgress(ev record.Event) error {
	idx, err := s.inProgressOrFallback("overwrite")
	if err != nil {
		return err
	}
	if err := s.writeSlot(idx, ev, record.FlagInProgress); err != nil {
		return err
	}
	s.cursor = idx
	s.staged = record.Stored{Event: ev, Flag: record.FlagInProgress}
	return nil
}

// Clear erases the whole medium and opens a new ring at the current
// cursor (not slot 0) using the buffered value, so successive clears
// rotate the first slot around the medium.
func (s *Store) Clear() error {
	erased := bytes.Repeat([]byte{device.Erased}, s.dev.Capacity())
	if err := s.dev.Write(0, erased); err != nil {
		return &DeviceError{Op: "write", Offset: 0, Err: err}
	}

	if err := s.writeSlot(s.cursor, s.staged.Event, record.FlagInProgress); err != nil {
		return err
	}
	s.staged.Flag = record.FlagInProgress

	s.log.Info("log cleared", "slot", s.cursor/record.Size, "timestamp", s.staged.Timestamp)
	return nil
}

// LoadOnStartup returns the IN_PROGRESS record.
// On a medium without one it returns the zero Event: callers MUST treat
// that as a cold start, not as a historical record.
func (s *Store) LoadOnStartup() (record.Event, error) {
	idx, err := s.FindInProgress()
	if errors.Is(err, ErrNotFound) {
		s.staged = record.Stored{Flag: record.FlagInProgress}
		s.log.Info("no in-progress record on medium, cold start", "slots", s.slots)
		return record.Event{}, nil
	}
	if err != nil {
		return record.Event{}, err
	}

	rec, err := s.ReadSlot(idx)
	if err != nil {
		return record.Event{}, err
	}
	return rec.Event, nil
}

// Dump writes a hex rendering of the raw medium. Display only.
func (s *Store) Dump(w io.Writer) error {
	raw, err := s.dev.Read(0, s.dev.Capacity())
	if err != nil {
		return &DeviceError{Op: "read", Offset: 0, Err: err}
	}
	return dump.Hex(w, raw)
}

func (s *Store) inProgressOrFallback(op string) (int, error) {
	idx, err := s.FindInProgress()
	if errors.Is(err, ErrNotFound) {
		s.log.Warn("no in-progress record, recovering at slot 0",
			"op", op,
			"slots", s.slots,
		)
		return 0, nil
	}
	return idx, err
}
