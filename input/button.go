// Package input debounces the digital button inputs.
package input

// Pin is a raw digital input.
type Pin interface {
	Get() bool
}

// Config of a button.
type Config struct {
	ActiveLow bool  // true if pressed == low
	Samples   uint8 // consecutive equal reads before a change is accepted
}

// Button is a debounced push button.
type Button struct {
	pin       Pin
	activeLow bool
	samples   uint8

	pressed bool
	count   uint8
}

// NewButton creates a released button on the given pin.
// Samples==0 is coerced to 1 (no debouncing).
func NewButton(pin Pin, cfg Config) *Button {
	if cfg.Samples == 0 {
		cfg.Samples = 1
	}
	return &Button{
		pin:       pin,
		activeLow: cfg.ActiveLow,
		samples:   cfg.Samples,
	}
}

// Poll reads the pin once and returns the debounced pressed state.
func (b *Button) Poll() bool {
	level := b.pin.Get()
	if b.activeLow {
		level = !level
	}
	if level == b.pressed {
		b.count = 0
		return b.pressed
	}
	b.count++
	if b.count >= b.samples {
		b.pressed = level
		b.count = 0
	}
	return b.pressed
}

// Pressed returns the last debounced state without reading the pin.
func (b *Button) Pressed() bool { return b.pressed }
