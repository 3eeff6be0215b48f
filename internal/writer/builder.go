// internal/writer/builder.go
package writer

import (
	"time"

	cfg "github.com/tamzrod/downtime-log/internal/config"
	wmodbus "github.com/tamzrod/downtime-log/internal/writer/modbus"
)

// BuildStatusWriter connects to status memory and returns a writer for
// the monitored device's block. Assumes config passed Validate/Normalize.
func BuildStatusWriter(sm cfg.StatusMemoryConfig, deviceName string) (StatusWriter, func() error, error) {
	c, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: sm.Endpoint,
		Timeout:  time.Duration(sm.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	sw := NewDeviceStatusWriter(StatusPlan{
		Endpoint:   sm.Endpoint,
		UnitID:     sm.UnitID,
		BaseSlot:   sm.Slot,
		DeviceName: deviceName,
	}, c)

	return sw, c.Close, nil
}
