// internal/config/normalize.go
package config

const (
	DefaultTimeoutMs = 1000
	DefaultBaudRate  = 19200

	// DeviceNameMaxChars matches the status block name field.
	DeviceNameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	r := &cfg.Recorder

	if m := r.Storage.Modbus; m != nil {
		if m.Transport == "" {
			m.Transport = "tcp"
		}
		if m.TimeoutMs <= 0 {
			m.TimeoutMs = DefaultTimeoutMs
		}
		if m.BaudRate <= 0 {
			m.BaudRate = DefaultBaudRate
		}
	}

	if r.Monitor.Source.TimeoutMs <= 0 {
		r.Monitor.Source.TimeoutMs = DefaultTimeoutMs
	}

	// ASCII already validated; truncate only.
	if len(r.Monitor.Source.DeviceName) > DeviceNameMaxChars {
		r.Monitor.Source.DeviceName = r.Monitor.Source.DeviceName[:DeviceNameMaxChars]
	}

	if sm := r.StatusMemory; sm != nil && sm.TimeoutMs <= 0 {
		sm.TimeoutMs = r.Monitor.Source.TimeoutMs
	}
}
