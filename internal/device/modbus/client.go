// internal/device/modbus/client.go
package modbus

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// Modbus application protocol limits.
const (
	maxReadRegisters  = 125
	maxWriteRegisters = 123
)

// registerClient is the subset of modbus.Client the device needs.
type registerClient interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Config is minimal transport + geometry config.
type Config struct {
	Transport string // "tcp" | "rtu"
	Endpoint  string // host:port for tcp, serial device path for rtu
	UnitID    uint8
	Timeout   time.Duration
	BaudRate  int // rtu only

	BaseAddress uint16 // first holding register of the medium
	Size        int    // medium size in bytes, even
}

// Device maps a byte medium onto a block of holding registers.
// Each register carries two bytes, high byte first.
type Device struct {
	cli   registerClient
	base  uint16
	size  int
	close func() error
}

// New connects to the slave that hosts the medium.
func New(cfg Config) (*Device, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus device: endpoint required")
	}

	var (
		cli     modbus.Client
		closeFn func() error
	)

	switch cfg.Transport {
	case "", "tcp":
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.UnitID
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("modbus device: connect %s: %w", cfg.Endpoint, err)
		}
		cli = modbus.NewClient(h)
		closeFn = h.Close

	case "rtu":
		h := modbus.NewRTUClientHandler(cfg.Endpoint)
		h.BaudRate = cfg.BaudRate
		h.DataBits = 8
		h.Parity = "N"
		h.StopBits = 1
		h.Timeout = cfg.Timeout
		h.SlaveId = cfg.UnitID
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("modbus device: open %s: %w", cfg.Endpoint, err)
		}
		cli = modbus.NewClient(h)
		closeFn = h.Close

	default:
		return nil, fmt.Errorf("modbus device: unsupported transport %q", cfg.Transport)
	}

	d, err := newDevice(cli, cfg.BaseAddress, cfg.Size)
	if err != nil {
		_ = closeFn()
		return nil, err
	}
	d.close = closeFn
	return d, nil
}

func newDevice(cli registerClient, base uint16, size int) (*Device, error) {
	if size <= 0 || size%2 != 0 {
		return nil, fmt.Errorf("modbus device: size %d must be positive and even", size)
	}
	if int(base)+size/2 > 0x10000 {
		return nil, fmt.Errorf("modbus device: %d bytes at register %d exceed the register space", size, base)
	}
	return &Device{cli: cli, base: base, size: size}, nil
}

// Close releases the transport.
func (d *Device) Close() error {
	if d == nil || d.close == nil {
		return nil
	}
	return d.close()
}

func (d *Device) Capacity() int { return d.size }

func (d *Device) Read(offset, length int) ([]byte, error) {
	if err := d.checkRange(offset, length); err != nil {
		return nil, err
	}
	if length == 0 {
		return []byte{}, nil
	}

	first, raw, err := d.readCovering(offset, length)
	if err != nil {
		return nil, err
	}
	start := offset - first*2
	return raw[start : start+length], nil
}

// Write patches the covering registers and writes them back only if
// any byte changed. Odd offsets keep the neighbouring byte intact.
func (d *Device) Write(offset int, data []byte) error {
	if err := d.checkRange(offset, len(data)); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	first, raw, err := d.readCovering(offset, len(data))
	if err != nil {
		return err
	}

	start := offset - first*2
	if bytes.Equal(raw[start:start+len(data)], data) {
		return nil
	}

	patched := make([]byte, len(raw))
	copy(patched, raw)
	copy(patched[start:], data)

	regs := len(patched) / 2
	for done := 0; done < regs; done += maxWriteRegisters {
		n := regs - done
		if n > maxWriteRegisters {
			n = maxWriteRegisters
		}
		chunk := patched[done*2 : (done+n)*2]
		if bytes.Equal(chunk, raw[done*2:(done+n)*2]) {
			continue
		}
		addr := d.base + uint16(first+done)
		if _, err := d.cli.WriteMultipleRegisters(addr, uint16(n), chunk); err != nil {
			return fmt.Errorf("modbus device: write %d regs at %d: %w", n, addr, err)
		}
	}
	return nil
}

// readCovering reads every register touched by [offset, offset+length).
// It returns the first register index (relative to base) and the raw bytes.
func (d *Device) readCovering(offset, length int) (int, []byte, error) {
	first := offset / 2
	last := (offset + length - 1) / 2
	regs := last - first + 1

	out := make([]byte, 0, regs*2)
	for done := 0; done < regs; done += maxReadRegisters {
		n := regs - done
		if n > maxReadRegisters {
			n = maxReadRegisters
		}
		addr := d.base + uint16(first+done)
		p, err := d.cli.ReadHoldingRegisters(addr, uint16(n))
		if err != nil {
			return 0, nil, fmt.Errorf("modbus device: read %d regs at %d: %w", n, addr, err)
		}
		if len(p) != n*2 {
			return 0, nil, fmt.Errorf("modbus device: short read at %d: got %d bytes want %d", addr, len(p), n*2)
		}
		out = append(out, p...)
	}
	return first, out, nil
}

func (d *Device) checkRange(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > d.size {
		return fmt.Errorf("modbus device: access out of range: offset=%d length=%d capacity=%d", offset, length, d.size)
	}
	return nil
}
