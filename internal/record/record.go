// internal/record/record.go
package record

// Stored record layout constants.
// These values are the on-medium compatibility contract and MUST NOT change.

// ---- GEOMETRY ----

// Size is the fixed size of one stored record (one slot) in bytes.
const Size = 8

// Byte offsets inside a slot.
const (
	OffsetTimestamp = 0 // 4 bytes, big-endian
	OffsetDowntime  = 4 // 2 bytes, big-endian
	OffsetSpare     = 6 // never written by the store
	OffsetFlag      = 7
)

// DataLen is the number of leading bytes carrying the event fields.
const DataLen = OffsetSpare

// ---- FLAGS ----

// Flag is the state byte of a slot.
type Flag uint8

const (
	FlagComplete   Flag = 0x01
	FlagInProgress Flag = 0x02
	FlagUnused     Flag = 0xFF
)

func (f Flag) String() string {
	switch f {
	case FlagComplete:
		return "complete"
	case FlagInProgress:
		return "in-progress"
	case FlagUnused:
		return "unused"
	default:
		return "invalid"
	}
}

// ---- VALUES ----

// Event is the in-memory downtime record exchanged with callers.
type Event struct {
	Timestamp       uint32 // seconds since the record epoch
	DowntimeMinutes uint16
}

// IsZero reports whether e is the synthesized cold-start value.
func (e Event) IsZero() bool {
	return e.Timestamp == 0 && e.DowntimeMinutes == 0
}

// Stored is one slot as it lives on the medium.
type Stored struct {
	Event
	Spare byte
	Flag  Flag
}
