package ledstrip

// GradientStep is how far the animation time base moves per frame.
const GradientStep = 10

// Gradient is a moving magenta/green gradient along the strip.
type Gradient struct {
	t uint16
}

// Time returns the current animation time base.
func (g *Gradient) Time() uint16 { return g.t }

// Fill writes the current gradient frame into frame.
func (g *Gradient) Fill(frame []Color) {
	base := uint8(g.t >> 2)
	for i := range frame {
		x := base - uint8(8*i)
		frame[i] = Color{R: x, G: 255 - x, B: x}
	}
}

// Advance moves the animation one frame forward. The time base wraps.
func (g *Gradient) Advance() {
	g.t += GradientStep
}

// Clear sets every LED in frame to black.
func Clear(frame []Color) {
	for i := range frame {
		frame[i] = Color{}
	}
}
