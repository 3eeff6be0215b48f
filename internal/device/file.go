// internal/device/file.go
package device

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

// File is a fixed-size medium backed by a regular file.
// A missing file is created erased.
type File struct {
	f    *os.File
	size int
}

// OpenFile opens or creates the medium at path.
// An existing file MUST have exactly size bytes.
func OpenFile(path string, size int) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("device: invalid file size %d", size)
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, fmt.Errorf("device: mkdir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, defaultFileMode)
	if err != nil {
		return nil, fmt.Errorf("device: open: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("device: stat: %w", err)
	}

	switch {
	case st.Size() == 0:
		if _, err := f.WriteAt(bytes.Repeat([]byte{Erased}, size), 0); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("device: erase new medium: %w", err)
		}
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("device: sync: %w", err)
		}
	case st.Size() != int64(size):
		_ = f.Close()
		return nil, fmt.Errorf("device: %s has %d bytes, configured size is %d", path, st.Size(), size)
	}

	return &File{f: f, size: size}, nil
}

func (d *File) Read(offset, length int) ([]byte, error) {
	if err := checkRange(d.size, offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	if _, err := d.f.ReadAt(out, int64(offset)); err != nil {
		return nil, fmt.Errorf("device: read at %d: %w", offset, err)
	}
	return out, nil
}

func (d *File) Write(offset int, data []byte) error {
	cur, err := d.Read(offset, len(data))
	if err != nil {
		return err
	}
	if bytes.Equal(cur, data) {
		return nil
	}
	if _, err := d.f.WriteAt(data, int64(offset)); err != nil {
		return fmt.Errorf("device: write at %d: %w", offset, err)
	}
	if err := d.f.Sync(); err != nil {
		return fmt.Errorf("device: sync: %w", err)
	}
	return nil
}

func (d *File) Capacity() int { return d.size }

// Close closes the backing file.
func (d *File) Close() error {
	if d == nil || d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
