// internal/monitor/errors.go
package monitor

import (
	"errors"
	"net"

	"github.com/goburrow/modbus"
)

// Probe error codes published in the status block.
const (
	ErrCodeNone    uint16 = 0
	ErrCodeGeneric uint16 = 1
	ErrCodeTimeout uint16 = 2

	// ErrCodeException is OR-ed with the Modbus exception code.
	ErrCodeException uint16 = 0x0100
)

// errorCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns ErrCodeGeneric.
func errorCode(err error) uint16 {
	if err == nil {
		return ErrCodeNone
	}

	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		return ErrCodeException | uint16(mbErr.ExceptionCode)
	}

	type coder interface{ Code() uint16 }
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrCodeTimeout
	}

	return ErrCodeGeneric
}
