// Package indicator implements the state machine that compares the analog
// sample against the tuned threshold and drives the discrete indicator
// outputs.
package indicator

import "fmt"

// State of the indicator machine.
type State uint8

const (
	Start State = iota
	Off
	On
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Off:
		return "off"
	case On:
		return "on"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// PatternIdle is the output pattern with every output inactive. Outputs are
// active-low.
const PatternIdle uint8 = 0xFF

// levelPatterns maps a tune level to its output pattern; level n lights
// output 7-n.
var levelPatterns = [8]uint8{0x7F, 0xBF, 0xDF, 0xEF, 0xF7, 0xFB, 0xFD, 0xFE}

// PatternForLevel returns the output pattern for the given tune level.
func PatternForLevel(level uint8) (uint8, bool) {
	if int(level) >= len(levelPatterns) {
		return 0, false
	}
	return levelPatterns[level], true
}

// Port is the set of 8 discrete indicator outputs.
type Port interface {
	WriteBits(pattern uint8) error
}

// Machine is the indicator state machine.
type Machine struct {
	state   State
	active  bool
	pattern uint8
}

// New creates a machine in the Start state with all outputs inactive.
func New() *Machine {
	return &Machine{state: Start, pattern: PatternIdle}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Active reports whether the indicator is on.
func (m *Machine) Active() bool { return m.active }

// Pattern returns the current output pattern.
func (m *Machine) Pattern() uint8 { return m.pattern }

// Step evaluates sample against threshold, moves to On or Off and applies
// the outputs of that state. The result depends only on the arguments.
func (m *Machine) Step(sample, threshold uint16, level uint8) State {
	if sample >= threshold {
		m.state = On
	} else {
		m.state = Off
	}

	switch m.state {
	case On:
		m.active = true
		if p, ok := PatternForLevel(level); ok {
			m.pattern = p
		}
	default:
		m.active = false
		m.pattern = PatternIdle
	}
	return m.state
}
