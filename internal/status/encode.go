// internal/status/encode.go
package status

// Encode converts a Snapshot into a full device status block.
// Reserved and device-name slots are left zero.
// Layout is protocol-locked. No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsDown] = s.SecondsDown
	regs[SlotDowntimeMinutes] = s.DowntimeMinutes
	regs[SlotPeriodStartHi] = uint16(s.PeriodStart >> 16)
	regs[SlotPeriodStartLo] = uint16(s.PeriodStart)
	regs[SlotCompletedRecords] = s.CompletedRecords

	return regs
}
