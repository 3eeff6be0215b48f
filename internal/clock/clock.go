// internal/clock/clock.go
package clock

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone rules for hosts without a zoneinfo database
)

// NTPEpochOffset is the number of seconds from 1900-01-01 to 1970-01-01.
const NTPEpochOffset int64 = 2_208_988_800

// Clock converts wall time to record timestamps: seconds since
// 1900-01-01 in local time, truncated to u32 (wraps in 2036).
//
// Local time follows the clock's zone, daylight saving included: a record
// written at 10:00 AEDT carries 10:00, not 09:00 AEST.
type Clock struct {
	zone *time.Location
	now  func() time.Time
}

// New returns a clock for a fixed zone offsetHours east of UTC.
func New(offsetHours int) *Clock {
	return WithNow(offsetHours, time.Now)
}

// WithNow is New with an injectable time source.
func WithNow(offsetHours int, now func() time.Time) *Clock {
	return InZone(fixedZone(offsetHours), now)
}

// InZone returns a clock for loc with an injectable time source.
func InZone(loc *time.Location, now func() time.Time) *Clock {
	return &Clock{zone: loc, now: now}
}

// Load resolves an IANA zone name (e.g. "Australia/Sydney").
// An empty name falls back to the fixed offset.
func Load(zone string, offsetHours int) (*Clock, error) {
	if zone == "" {
		return New(offsetHours), nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("clock: zone %q: %w", zone, err)
	}
	return InZone(loc, time.Now), nil
}

func fixedZone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// Zone is the clock's location.
func (c *Clock) Zone() *time.Location { return c.zone }

// Now returns the current time as a record timestamp.
func (c *Clock) Now() uint32 {
	return c.ToRecord(c.now())
}

// ToRecord converts t to a record timestamp using the zone offset in
// effect at t.
func (c *Clock) ToRecord(t time.Time) uint32 {
	_, offset := t.In(c.zone).Zone()
	return uint32(t.Unix() + NTPEpochOffset + int64(offset))
}

// FromRecord converts a record timestamp back to wall time in the clock's
// zone. Timestamps are assumed to lie in the 1900-2036 era.
//
// A local time repeated when daylight saving ends maps to one of its two
// instants; which one is unspecified.
func (c *Clock) FromRecord(ts uint32) time.Time {
	wall := time.Unix(int64(ts)-NTPEpochOffset, 0).UTC()
	return time.Date(
		wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), 0,
		c.zone,
	)
}
