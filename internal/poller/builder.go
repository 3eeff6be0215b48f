// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/downtime-log/internal/config"
	pmodbus "github.com/tamzrod/downtime-log/internal/poller/modbus"
)

// Build constructs a Poller for the monitored device and wires the Modbus
// client lifecycle. Connection is reused while healthy.
//
// Unlike a data poller, an unreachable device at startup is NOT fatal:
// being down is exactly what gets recorded.
func Build(m cfg.MonitorConfig) (*Poller, func() error, error) {
	factory := func() (Client, error) {
		return pmodbus.New(pmodbus.Config{
			Endpoint: m.Source.Endpoint,
			UnitID:   m.Source.UnitID,
			Timeout:  time.Duration(m.Source.TimeoutMs) * time.Millisecond,
		})
	}

	name := m.Source.DeviceName
	if name == "" {
		name = m.Source.Endpoint
	}

	p, err := New(
		Config{
			Device:   name,
			Interval: time.Duration(m.Poll.IntervalMs) * time.Millisecond,
			Reads: []ReadBlock{{
				FC:       m.Probe.FC,
				Address:  m.Probe.Address,
				Quantity: m.Probe.Quantity,
			}},
		},
		nil,
		factory,
	)
	if err != nil {
		return nil, nil, err
	}

	return p, p.Close, nil
}
