// internal/device/device.go
package device

import (
	"errors"
	"fmt"
)

// Device is the byte-addressable persistent medium the record store runs on.
// Implementations provide no atomicity beyond single bytes.
type Device interface {
	// Read returns length bytes starting at offset.
	Read(offset, length int) ([]byte, error)
	// Write stores data at offset. Bytes that already hold the
	// requested value may be skipped (write-if-changed).
	Write(offset int, data []byte) error
	// Capacity is the total medium size in bytes.
	Capacity() int
}

// Erased is the value of every byte on a freshly erased medium.
const Erased byte = 0xFF

// ErrOutOfRange is returned for accesses outside [0, Capacity).
var ErrOutOfRange = errors.New("device: access out of range")

func checkRange(capacity, offset, length int) error {
	if offset < 0 || length < 0 || offset+length > capacity {
		return fmt.Errorf("%w: offset=%d length=%d capacity=%d", ErrOutOfRange, offset, length, capacity)
	}
	return nil
}
