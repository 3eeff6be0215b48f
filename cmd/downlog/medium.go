// cmd/downlog/medium.go
package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tamzrod/downtime-log/internal/config"
	"github.com/tamzrod/downtime-log/internal/device"
	mbdevice "github.com/tamzrod/downtime-log/internal/device/modbus"
	"github.com/tamzrod/downtime-log/internal/store"
)

// openMedium opens the configured storage device.
// Assumes config passed Validate/Normalize.
func openMedium(sc config.StorageConfig) (device.Device, func() error, error) {
	switch sc.Kind {
	case config.StorageMemory:
		return device.NewMemory(sc.Size), func() error { return nil }, nil

	case config.StorageFile:
		f, err := device.OpenFile(sc.Path, sc.Size)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil

	case config.StorageModbus:
		m := sc.Modbus
		d, err := mbdevice.New(mbdevice.Config{
			Transport:   m.Transport,
			Endpoint:    m.Endpoint,
			UnitID:      m.UnitID,
			Timeout:     time.Duration(m.TimeoutMs) * time.Millisecond,
			BaudRate:    m.BaudRate,
			BaseAddress: m.BaseAddress,
			Size:        sc.Size,
		})
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	}

	return nil, nil, fmt.Errorf("storage: unknown kind %q", sc.Kind)
}

// openStore loads config and opens the record store on its medium.
func openStore(log *slog.Logger) (*config.Config, *store.Store, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	dev, closeDev, err := openMedium(cfg.Recorder.Storage)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open medium: %w", err)
	}

	st, err := store.New(dev, store.WithLogger(log))
	if err != nil {
		closeDev()
		return nil, nil, nil, err
	}
	return cfg, st, closeDev, nil
}
