// internal/status/constants.go
package status

// Downtime Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per device.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the device health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last probe error code.
const SlotLastErrorCode = 1

// SlotSecondsDown holds the duration (in seconds) of the current outage.
const SlotSecondsDown = 2

// SlotDowntimeMinutes mirrors the downtime of the in-progress record.
const SlotDowntimeMinutes = 3

// SlotPeriodStartHi and SlotPeriodStartLo hold the in-progress record
// timestamp (u32, big-endian word order).
const SlotPeriodStartHi = 4
const SlotPeriodStartLo = 5

// SlotCompletedRecords holds the number of completed records since start.
const SlotCompletedRecords = 6

// ---- RESERVED RANGE ----

// Slots 7–10 are reserved for future use.
const SlotReservedStart = 7
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthUp represents a reachable device.
const HealthUp uint16 = 1

// HealthDown represents an unreachable device (outage in progress).
const HealthDown uint16 = 2
