package ledstrip

import "errors"

// Profile holds the pulse timing for one processor clock frequency.
//
// The timing follows a fixed cycle model of the bit routine:
// call (3), drive high (2), shift (1), LeadNops, zero-bit cutoff,
// HoldNops, one-bit cutoff, return (4). Each cutoff is either a skipped
// branch (2) or a branch plus drive low (3), and exactly one of the two
// drives low, so both bit values take PeriodCycles.
type Profile struct {
	Name     string
	ClockHz  uint32
	LeadNops uint8 // no-ops between the rising edge and the zero-bit cutoff
	HoldNops uint8 // no-ops between the zero-bit and the one-bit cutoff
	// ShiftHigh is set when the bit shift executes while the line is
	// already high (it is moved before the rising edge at 8 MHz to keep the
	// zero pulse short enough).
	ShiftHigh bool
}

const (
	callCycles   = 3
	setCycles    = 2
	shiftCycles  = 1
	cutoffCycles = 3 // branch not taken, then drive low
	skipCycles   = 2 // branch taken over the drive low
	returnCycles = 4
)

// Supported clock profiles.
var (
	Profile8MHz  = Profile{Name: "8MHz", ClockHz: 8_000_000, LeadNops: 0, HoldNops: 2, ShiftHigh: false}
	Profile16MHz = Profile{Name: "16MHz", ClockHz: 16_000_000, LeadNops: 2, HoldNops: 5, ShiftHigh: true}
	Profile20MHz = Profile{Name: "20MHz", ClockHz: 20_000_000, LeadNops: 4, HoldNops: 7, ShiftHigh: true}
)

// Profiles lists every supported profile, slowest clock first.
var Profiles = []Profile{Profile8MHz, Profile16MHz, Profile20MHz}

// ErrUnsupportedClock is returned by Lookup for a clock without a profile.
var ErrUnsupportedClock = errors.New("unsupported clock frequency")

// Lookup returns the profile for the given clock frequency.
func Lookup(clockHz uint32) (Profile, error) {
	for _, p := range Profiles {
		if p.ClockHz == clockHz {
			return p, nil
		}
	}
	return Profile{}, ErrUnsupportedClock
}

func (p Profile) shift() uint16 {
	if p.ShiftHigh {
		return shiftCycles
	}
	return 0
}

// ZeroHighCycles is the number of cycles the line is high for a 0 bit.
func (p Profile) ZeroHighCycles() uint16 {
	return p.shift() + uint16(p.LeadNops) + cutoffCycles
}

// OneHighCycles is the number of cycles the line is high for a 1 bit.
func (p Profile) OneHighCycles() uint16 {
	return p.shift() + uint16(p.LeadNops) + skipCycles + uint16(p.HoldNops) + cutoffCycles
}

// PeriodCycles is the length of a single bit slot in cycles.
func (p Profile) PeriodCycles() uint16 {
	return callCycles + setCycles + shiftCycles + uint16(p.LeadNops) +
		cutoffCycles + uint16(p.HoldNops) + skipCycles + returnCycles
}

// HighCycles returns the high time for the given bit value.
func (p Profile) HighCycles(one bool) uint16 {
	if one {
		return p.OneHighCycles()
	}
	return p.ZeroHighCycles()
}

// LowCycles returns the remainder of the bit slot after the falling edge.
func (p Profile) LowCycles(one bool) uint16 {
	return p.PeriodCycles() - p.HighCycles(one)
}

// Nanos converts a cycle count to nanoseconds (truncated).
func (p Profile) Nanos(cycles uint16) uint32 {
	if p.ClockHz == 0 {
		return 0
	}
	return uint32(uint64(cycles) * 1_000_000_000 / uint64(p.ClockHz))
}

// CyclesPerMicro returns the number of cycles in one microsecond.
func (p Profile) CyclesPerMicro() uint32 {
	return p.ClockHz / 1_000_000
}
