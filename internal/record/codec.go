// internal/record/codec.go
package record

import (
	"encoding/binary"
	"fmt"
)

// Encode converts a Stored record into its 8-byte slot image.
// Layout is protocol-locked. No IO.
func Encode(s Stored) [Size]byte {
	var b [Size]byte
	binary.BigEndian.PutUint32(b[OffsetTimestamp:], s.Timestamp)
	binary.BigEndian.PutUint16(b[OffsetDowntime:], s.DowntimeMinutes)
	b[OffsetSpare] = s.Spare
	b[OffsetFlag] = byte(s.Flag)
	return b
}

// Decode parses one slot image. The flag is returned verbatim;
// interpreting it is the caller's job.
func Decode(b []byte) (Stored, error) {
	if len(b) < Size {
		return Stored{}, fmt.Errorf("record: short slot: got %d bytes, want %d", len(b), Size)
	}
	return Stored{
		Event: Event{
			Timestamp:       binary.BigEndian.Uint32(b[OffsetTimestamp:]),
			DowntimeMinutes: binary.BigEndian.Uint16(b[OffsetDowntime:]),
		},
		Spare: b[OffsetSpare],
		Flag:  Flag(b[OffsetFlag]),
	}, nil
}
