// Package sim runs the control loop on a virtual board, driven by scenario
// files.
package sim

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
)

// Scenario is a scripted run of the firmware.
type Scenario struct {
	Name       string  `yaml:"name"`
	ClockHz    uint32  `yaml:"clock_hz"`    // 0 = build configuration
	DurationMs uint32  `yaml:"duration_ms"` // virtual run time
	LEDCount   int     `yaml:"led_count"`   // 0 = build configuration
	Timeline   []Event `yaml:"timeline"`
	Expect     Expect  `yaml:"expect"`
}

// Event changes the board inputs at a point in virtual time.
type Event struct {
	AtMs uint32 `yaml:"at_ms"`

	// Analog sets the converter input from AtMs on.
	Analog *uint16 `yaml:"analog"`
	// Fail makes converter reads fail until the next Analog event.
	Fail bool `yaml:"fail"`

	// Press holds "a", "b" or "both" buttons for HoldMs.
	Press  string `yaml:"press"`
	HoldMs uint32 `yaml:"hold_ms"`
}

// Expect lists conditions on the final state of a run. Unset fields are
// not checked.
type Expect struct {
	Threshold      *uint16 `yaml:"threshold"`
	Level          *uint8  `yaml:"level"`
	Indicator      string  `yaml:"indicator"` // "on" or "off"
	Pattern        *uint8  `yaml:"pattern"`
	MinFrames      int     `yaml:"min_frames"`
	MinBlankFrames int     `yaml:"min_blank_frames"`
	MinReadErrors  uint64  `yaml:"min_read_errors"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile failed: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal failed: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario. It does not modify it.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if sc.ClockHz != 0 {
		if _, err := ledstrip.Lookup(sc.ClockHz); err != nil {
			return fmt.Errorf("scenario %q: clock_hz %d: %w", sc.Name, sc.ClockHz, err)
		}
	}
	if sc.DurationMs == 0 {
		return fmt.Errorf("scenario %q: duration_ms must be positive", sc.Name)
	}
	if sc.LEDCount < 0 {
		return fmt.Errorf("scenario %q: led_count must not be negative", sc.Name)
	}
	var last uint32
	for i, ev := range sc.Timeline {
		if ev.AtMs < last {
			return fmt.Errorf("scenario %q: event %d at %dms is out of order", sc.Name, i, ev.AtMs)
		}
		last = ev.AtMs
		if ev.AtMs > sc.DurationMs {
			return fmt.Errorf("scenario %q: event %d at %dms is after the end", sc.Name, i, ev.AtMs)
		}
		if ev.Analog != nil && ev.Fail {
			return fmt.Errorf("scenario %q: event %d sets analog and fail", sc.Name, i)
		}
		switch ev.Press {
		case "":
			if ev.HoldMs != 0 {
				return fmt.Errorf("scenario %q: event %d has hold_ms without press", sc.Name, i)
			}
		case "a", "b", "both":
			if ev.HoldMs == 0 {
				return fmt.Errorf("scenario %q: event %d press needs hold_ms", sc.Name, i)
			}
		default:
			return fmt.Errorf("scenario %q: event %d: unknown button %q", sc.Name, i, ev.Press)
		}
	}
	switch sc.Expect.Indicator {
	case "", "on", "off":
	default:
		return fmt.Errorf("scenario %q: expect.indicator must be on or off, got %q", sc.Name, sc.Expect.Indicator)
	}
	return nil
}

// Duration returns the virtual run time.
func (sc *Scenario) Duration() time.Duration {
	return time.Duration(sc.DurationMs) * time.Millisecond
}

// Analog implements Stimulus.
func (sc *Scenario) Analog(t time.Duration) (uint16, bool) {
	var v uint16
	ok := true
	for _, ev := range sc.Timeline {
		if at(ev.AtMs) > t {
			break
		}
		switch {
		case ev.Analog != nil:
			v, ok = *ev.Analog, true
		case ev.Fail:
			ok = false
		}
	}
	return v, ok
}

// Pressed implements Stimulus.
func (sc *Scenario) Pressed(t time.Duration) (a, b bool) {
	for _, ev := range sc.Timeline {
		if ev.Press == "" || t < at(ev.AtMs) || t >= at(ev.AtMs+ev.HoldMs) {
			continue
		}
		a = a || ev.Press == "a" || ev.Press == "both"
		b = b || ev.Press == "b" || ev.Press == "both"
	}
	return a, b
}

func at(ms uint32) time.Duration { return time.Duration(ms) * time.Millisecond }
