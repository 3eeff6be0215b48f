// internal/device/memory.go
package device

// Memory is a RAM-backed medium. Used for simulation and tests.
type Memory struct {
	buf []byte

	// ByteWrites counts bytes that actually changed (wear).
	ByteWrites int
}

// NewMemory returns an erased medium of size bytes.
func NewMemory(size int) *Memory {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = Erased
	}
	return &Memory{buf: buf}
}

func (m *Memory) Read(offset, length int) ([]byte, error) {
	if err := checkRange(len(m.buf), offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.buf[offset:offset+length])
	return out, nil
}

func (m *Memory) Write(offset int, data []byte) error {
	if err := checkRange(len(m.buf), offset, len(data)); err != nil {
		return err
	}
	for i, b := range data {
		if m.buf[offset+i] != b {
			m.buf[offset+i] = b
			m.ByteWrites++
		}
	}
	return nil
}

func (m *Memory) Capacity() int { return len(m.buf) }

// Bytes returns a copy of the whole medium.
func (m *Memory) Bytes() []byte {
	out := make([]byte, len(m.buf))
	copy(out, m.buf)
	return out
}
