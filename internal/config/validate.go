// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"time"
)

// recordSize mirrors the slot size of the record store.
const recordSize = 8

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	r := cfg.Recorder

	// ------------------------------------------------------------
	// STORAGE
	// ------------------------------------------------------------

	if r.Storage.Size < recordSize {
		return fmt.Errorf("storage: size %d must hold at least one %d-byte record", r.Storage.Size, recordSize)
	}

	switch r.Storage.Kind {
	case StorageMemory:
	case StorageFile:
		if r.Storage.Path == "" {
			return errors.New("storage: kind=file requires path")
		}
	case StorageModbus:
		m := r.Storage.Modbus
		if m == nil {
			return errors.New("storage: kind=modbus requires a modbus block")
		}
		if m.Endpoint == "" {
			return errors.New("storage: modbus endpoint required")
		}
		if m.Transport != "" && m.Transport != "tcp" && m.Transport != "rtu" {
			return fmt.Errorf("storage: unsupported modbus transport %q", m.Transport)
		}
		if r.Storage.Size%2 != 0 {
			return fmt.Errorf("storage: modbus medium size %d must be even (2 bytes per register)", r.Storage.Size)
		}
		if int(m.BaseAddress)+r.Storage.Size/2 > 0x10000 {
			return fmt.Errorf("storage: %d bytes at register %d exceed the register space", r.Storage.Size, m.BaseAddress)
		}
	default:
		return fmt.Errorf("storage: unknown kind %q", r.Storage.Kind)
	}

	// ------------------------------------------------------------
	// MONITORED DEVICE
	// ------------------------------------------------------------

	src := r.Monitor.Source
	if src.Endpoint == "" {
		return errors.New("monitor: source endpoint required")
	}
	for i := 0; i < len(src.DeviceName); i++ {
		if src.DeviceName[i] > 0x7F {
			return errors.New("monitor: device_name must contain ASCII characters only")
		}
	}

	p := r.Monitor.Probe
	if p.FC < 1 || p.FC > 4 {
		return fmt.Errorf("monitor: probe fc %d not supported (1-4)", p.FC)
	}
	if p.Quantity == 0 {
		return errors.New("monitor: probe quantity must be > 0")
	}
	if int(p.Address)+int(p.Quantity) > 0x10000 {
		return fmt.Errorf("monitor: probe range %d+%d exceeds address space", p.Address, p.Quantity)
	}

	if r.Monitor.Poll.IntervalMs <= 0 {
		return errors.New("monitor: poll interval_ms must be > 0")
	}

	// ------------------------------------------------------------
	// STATUS MEMORY (OPT-IN)
	// ------------------------------------------------------------

	if sm := r.StatusMemory; sm != nil {
		if sm.Endpoint == "" {
			return errors.New("status_memory: endpoint required")
		}
	}

	// ------------------------------------------------------------
	// CLOCK
	// ------------------------------------------------------------

	if r.Clock.UTCOffsetHours < -12 || r.Clock.UTCOffsetHours > 14 {
		return fmt.Errorf("clock: utc_offset_hours %d out of range (-12..14)", r.Clock.UTCOffsetHours)
	}
	if r.Clock.Zone != "" {
		if _, err := time.LoadLocation(r.Clock.Zone); err != nil {
			return fmt.Errorf("clock: unknown zone %q: %w", r.Clock.Zone, err)
		}
	}

	return nil
}
