// Package tuning implements the two-button threshold tuning state machine.
//
// Button A raises the threshold one step, button B lowers it. Each press
// produces exactly one step; the machine waits for both buttons to be
// released before accepting the next press.
package tuning

import (
	"errors"
	"fmt"
)

// State of the tuning machine.
type State uint8

const (
	Start State = iota
	Hold
	Add
	Sub
	Wait
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Hold:
		return "hold"
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Wait:
		return "wait"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// MaxLevel is the highest tune level.
const MaxLevel = 7

// ErrInvalidBounds is returned by Bounds.Validate.
var ErrInvalidBounds = errors.New("invalid threshold bounds")

// Bounds configures the threshold range.
type Bounds struct {
	Default uint16
	Min     uint16
	Max     uint16
	Step    uint16
}

// Validate checks that the bounds keep the threshold on a whole step
// within [Min, Max] and the tune level within [0, MaxLevel].
func (b Bounds) Validate() error {
	switch {
	case b.Step == 0:
		return fmt.Errorf("%w: step must be positive", ErrInvalidBounds)
	case b.Min > b.Max:
		return fmt.Errorf("%w: min %d above max %d", ErrInvalidBounds, b.Min, b.Max)
	case b.Default != b.Min:
		return fmt.Errorf("%w: default %d must equal min %d", ErrInvalidBounds, b.Default, b.Min)
	case (b.Max-b.Min)%b.Step != 0:
		return fmt.Errorf("%w: range %d-%d is not a multiple of step %d", ErrInvalidBounds, b.Min, b.Max, b.Step)
	case (b.Max-b.Min)/b.Step > MaxLevel:
		return fmt.Errorf("%w: %d steps exceed %d levels", ErrInvalidBounds, (b.Max-b.Min)/b.Step, MaxLevel)
	}
	return nil
}

// Machine is the threshold tuning state machine.
type Machine struct {
	b         Bounds
	state     State
	threshold uint16
	level     uint8
}

// New creates a machine in the Start state.
func New(b Bounds) *Machine {
	return &Machine{
		b:         b,
		state:     Start,
		threshold: b.Default,
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Threshold returns the current threshold.
func (m *Machine) Threshold() uint16 { return m.threshold }

// Level returns how many steps the threshold is above its default.
func (m *Machine) Level() uint8 { return m.level }

// Step advances the machine once with the debounced levels of both
// buttons and returns the new state.
func (m *Machine) Step(a, b bool) State {
	switch m.state {
	case Start:
		m.threshold = m.b.Default
		m.level = 0
		m.state = Hold
	case Hold:
		switch {
		case a && !b && m.threshold < m.b.Max:
			m.state = Add
		case b && !a && m.threshold > m.b.Min:
			m.state = Sub
		}
	case Add:
		m.threshold += m.b.Step
		m.level++
		m.state = Wait
	case Sub:
		m.threshold -= m.b.Step
		m.level--
		m.state = Wait
	case Wait:
		if !a && !b {
			m.state = Hold
		}
	default:
		m.state = Hold
	}
	return m.state
}
