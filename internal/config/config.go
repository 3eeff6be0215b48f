// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Recorder RecorderConfig `yaml:"recorder"`
}

type RecorderConfig struct {
	Storage      StorageConfig       `yaml:"storage"`
	Monitor      MonitorConfig       `yaml:"monitor"`
	StatusMemory *StatusMemoryConfig `yaml:"status_memory"` // optional
	Clock        ClockConfig         `yaml:"clock"`
	Metrics      MetricsConfig       `yaml:"metrics"`
}

// ---- STORAGE (record medium) ----

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageModbus = "modbus"
)

type StorageConfig struct {
	Kind   string               `yaml:"kind"` // memory | file | modbus
	Size   int                  `yaml:"size"` // bytes
	Path   string               `yaml:"path"` // file only
	Modbus *ModbusStorageConfig `yaml:"modbus"`
}

type ModbusStorageConfig struct {
	Transport   string `yaml:"transport"` // tcp | rtu
	Endpoint    string `yaml:"endpoint"`
	UnitID      uint8  `yaml:"unit_id"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	BaudRate    int    `yaml:"baud_rate"`
	BaseAddress uint16 `yaml:"base_address"`
}

// ---- MONITORED DEVICE ----

type MonitorConfig struct {
	Source SourceConfig `yaml:"source"`
	Probe  ReadConfig   `yaml:"probe"`
	Poll   PollConfig   `yaml:"poll"`
}

type SourceConfig struct {
	Endpoint   string `yaml:"endpoint"`
	UnitID     uint8  `yaml:"unit_id"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	DeviceName string `yaml:"device_name"`
}

// ReadConfig is the probe read geometry.
type ReadConfig struct {
	FC       uint8  `yaml:"fc"`
	Address  uint16 `yaml:"address"`
	Quantity uint16 `yaml:"quantity"`
}

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- STATUS MEMORY (optional, opt-in) ----

type StatusMemoryConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	Slot      uint16 `yaml:"slot"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- CLOCK ----

// ClockConfig selects the local time of record timestamps.
// Zone (IANA name) wins over UTCOffsetHours and follows daylight saving.
type ClockConfig struct {
	Zone           string `yaml:"zone"`             // e.g. Australia/Sydney; empty => fixed offset
	UTCOffsetHours int    `yaml:"utc_offset_hours"` // used when Zone is empty
}

// ---- METRICS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty => disabled
}

// Load reads a YAML config file. Unknown keys are rejected.
// The result is NOT validated.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
