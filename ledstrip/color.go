package ledstrip

import "image/color"

// Color represents the color of a single 8-bit RGB LED.
//
//	Black:      Color{0, 0, 0}
//	Pure red:   Color{255, 0, 0}
//	Pure green: Color{0, 255, 0}
//	Pure blue:  Color{0, 0, 255}
//	White:      Color{255, 255, 255}
type Color struct {
	R, G, B uint8
}

// BitsPerColor is the number of pulses sent for a single LED.
const BitsPerColor = 24

// RGBA implements color.Color. The LED has no alpha channel, so it is
// always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// ToRGBA converts to the color type used by tinygo drivers.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// FromColor converts any color.Color, dropping alpha.
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// ChannelOrder selects the order in which channels go out on the wire.
type ChannelOrder uint8

const (
	OrderRGB ChannelOrder = iota // red, green, blue
	OrderGRB                     // green, red, blue (native WS2812 order)
)

// Bytes returns the three channel bytes of c in wire order.
func (o ChannelOrder) Bytes(c Color) [3]uint8 {
	if o == OrderGRB {
		return [3]uint8{c.G, c.R, c.B}
	}
	return [3]uint8{c.R, c.G, c.B}
}

func (o ChannelOrder) String() string {
	switch o {
	case OrderGRB:
		return "GRB"
	default:
		return "RGB"
	}
}
