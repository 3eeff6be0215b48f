// internal/store/helpers_test.go
package store

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tamzrod/downtime-log/internal/device"
	"github.com/tamzrod/downtime-log/internal/record"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore returns a store over an erased RAM medium of n slots.
func newTestStore(t *testing.T, n int) (*Store, *device.Memory) {
	t.Helper()
	mem := device.NewMemory(n * record.Size)
	s, err := New(mem, WithLogger(quietLogger()))
	require.NoError(t, err)
	return s, mem
}

// flags returns the flag byte of every slot.
func flags(mem *device.Memory) []record.Flag {
	raw := mem.Bytes()
	out := make([]record.Flag, 0, len(raw)/record.Size)
	for i := 0; i+record.Size <= len(raw); i += record.Size {
		out = append(out, record.Flag(raw[i+record.OffsetFlag]))
	}
	return out
}

func countFlag(fs []record.Flag, want record.Flag) int {
	n := 0
	for _, f := range fs {
		if f == want {
			n++
		}
	}
	return n
}

func slotEvent(t *testing.T, mem *device.Memory, slot int) record.Stored {
	t.Helper()
	raw := mem.Bytes()
	rec, err := record.Decode(raw[slot*record.Size:])
	require.NoError(t, err)
	return rec
}

// seed writes a raw slot image directly onto the medium.
func seed(t *testing.T, mem *device.Memory, slot int, ev record.Event, f record.Flag) {
	t.Helper()
	img := record.Encode(record.Stored{Event: ev, Spare: 0xFF, Flag: f})
	require.NoError(t, mem.Write(slot*record.Size, img[:]))
}

// ---- failing device ----

var errBus = errors.New("bus fault")

type flakyDevice struct {
	*device.Memory
	failReads  bool
	failWrites bool
}

func (d *flakyDevice) Read(offset, length int) ([]byte, error) {
	if d.failReads {
		return nil, errBus
	}
	return d.Memory.Read(offset, length)
}

func (d *flakyDevice) Write(offset int, data []byte) error {
	if d.failWrites {
		return errBus
	}
	return d.Memory.Write(offset, data)
}
