// internal/store/store.go
package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tamzrod/downtime-log/internal/device"
	"github.com/tamzrod/downtime-log/internal/record"
)

// ErrNotFound means a search found no qualifying slot.
// It is a normal outcome (empty log, end of arc), not a failure.
var ErrNotFound = errors.New("store: no qualifying record")

// ErrTooSmall is returned when the medium cannot hold a single slot.
var ErrTooSmall = errors.New("store: medium smaller than one record")

// DeviceError wraps a failure of the underlying medium.
// Nothing in the store retries it.
type DeviceError struct {
	Op     string // "read" | "write"
	Offset int
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("store: device %s at %d: %v", e.Op, e.Offset, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// Store is the circular record log over one medium.
//
// It is NOT safe for concurrent use: one owner drives it serially and
// nothing else may write the medium while the store is live.
type Store struct {
	dev   device.Device
	size  int // slots * record.Size
	slots int

	cursor int           // byte offset of the slot last written or located
	staged record.Stored // last record read or staged for write

	log *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for recovery warnings and debug traces.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds a store over dev. Trailing bytes that do not fill a whole
// slot are never addressed.
func New(dev device.Device, opts ...Option) (*Store, error) {
	if dev == nil {
		return nil, errors.New("store: device required")
	}
	slots := dev.Capacity() / record.Size
	if slots < 1 {
		return nil, fmt.Errorf("%w: capacity=%d", ErrTooSmall, dev.Capacity())
	}

	s := &Store{
		dev:   dev,
		size:  slots * record.Size,
		slots: slots,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Slots is the number of slots N in the ring.
func (s *Store) Slots() int { return s.slots }

// Cursor is the byte offset of the current slot.
func (s *Store) Cursor() int { return s.cursor }

// Staged is the buffered record (last read or staged).
func (s *Store) Staged() record.Stored { return s.staged }

// Stage buffers ev as the value Clear will seed the new ring with.
func (s *Store) Stage(ev record.Event) {
	s.staged = record.Stored{Event: ev, Flag: record.FlagInProgress}
}

// ReadSlot reads and decodes the slot at byte offset index.
// The flag is not validated. The result becomes the buffered value.
func (s *Store) ReadSlot(index int) (record.Stored, error) {
	rec, err := s.readSlot(index)
	if err != nil {
		return record.Stored{}, err
	}
	s.staged = rec
	return rec, nil
}

// ---- internal helpers ----

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= s.size || index%record.Size != 0 {
		return fmt.Errorf("store: invalid slot offset %d (slots=%d)", index, s.slots)
	}
	return nil
}

func (s *Store) readSlot(index int) (record.Stored, error) {
	if err := s.checkIndex(index); err != nil {
		return record.Stored{}, err
	}
	b, err := s.dev.Read(index, record.Size)
	if err != nil {
		return record.Stored{}, &DeviceError{Op: "read", Offset: index, Err: err}
	}
	return record.Decode(b)
}

func (s *Store) flagAt(index int) (record.Flag, error) {
	b, err := s.dev.Read(index+record.OffsetFlag, 1)
	if err != nil {
		return 0, &DeviceError{Op: "read", Offset: index + record.OffsetFlag, Err: err}
	}
	return record.Flag(b[0]), nil
}

// writeSlot writes the event fields first and the flag last.
// The spare byte is left untouched.
func (s *Store) writeSlot(index int, ev record.Event, flag record.Flag) error {
	img := record.Encode(record.Stored{Event: ev, Flag: flag})

	if err := s.dev.Write(index, img[:record.DataLen]); err != nil {
		return &DeviceError{Op: "write", Offset: index, Err: err}
	}
	if err := s.dev.Write(index+record.OffsetFlag, img[record.OffsetFlag:]); err != nil {
		return &DeviceError{Op: "write", Offset: index + record.OffsetFlag, Err: err}
	}
	return nil
}

func (s *Store) next(index int) int {
	index += record.Size
	if index >= s.size {
		index = 0
	}
	return index
}

func (s *Store) prev(index int) int {
	index -= record.Size
	if index < 0 {
		index = s.size - record.Size
	}
	return index
}
