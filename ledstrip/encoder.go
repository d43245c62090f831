package ledstrip

// ResetMicros is the quiet period after a frame that makes the strip latch
// the received colors.
const ResetMicros = 80

// Line is the data line to the strip. It must already be configured as an
// output driving low.
type Line interface {
	High()
	Low()
}

// Spinner busy-waits for a number of processor cycles or microseconds.
// Implementations must not yield: the encoder relies on the waits being
// exact while interrupts are disabled.
type Spinner interface {
	SpinCycles(n uint16)
	SpinMicros(us uint16)
}

// Interrupts masks and unmasks interrupt delivery.
type Interrupts interface {
	// Disable masks interrupts and returns the previous state.
	Disable() uintptr
	// Restore returns to a state obtained from Disable.
	Restore(state uintptr)
}

// Writer sends a frame of colors to a strip.
type Writer interface {
	WriteColors(colors []Color) error
}

// Encoder bit-bangs colors onto the strip using the pulse widths of a
// clock Profile. Each bit costs four interface calls, so it only keeps
// WS2812 timing where those calls are free, as on the simulated board.
// Firmware sends through the AsmBit routines instead.
type Encoder struct {
	line  Line
	spin  Spinner
	irq   Interrupts
	order ChannelOrder

	zeroHigh, zeroLow uint16
	oneHigh, oneLow   uint16
}

// NewEncoder creates an encoder for the given line and timing profile.
func NewEncoder(line Line, spin Spinner, irq Interrupts, prof Profile, order ChannelOrder) *Encoder {
	return &Encoder{
		line:     line,
		spin:     spin,
		irq:      irq,
		order:    order,
		zeroHigh: prof.HighCycles(false),
		zeroLow:  prof.LowCycles(false),
		oneHigh:  prof.HighCycles(true),
		oneLow:   prof.LowCycles(true),
	}
}

// WriteColors sends all given colors to the strip.
func (e *Encoder) WriteColors(colors []Color) error {
	return e.Write(colors, len(colors))
}

// Write sends the first count colors to the strip, then holds the line low
// for ResetMicros so the strip latches them. count is clamped to
// [0, len(colors)].
//
// Interrupts are disabled for the whole transmission (about 1.1 ms for 30
// LEDs at 20 MHz, 3 ms for 60 LEDs at 8 MHz). An interrupt that still gets
// through corrupts the frame; this is not detected.
func (e *Encoder) Write(colors []Color, count int) error {
	if count > len(colors) {
		count = len(colors)
	}
	if count < 0 {
		count = 0
	}
	e.line.Low()

	state := e.irq.Disable()
	for _, c := range colors[:count] {
		ch := e.order.Bytes(c)
		e.writeByte(ch[0])
		e.writeByte(ch[1])
		e.writeByte(ch[2])
	}
	e.irq.Restore(state)

	e.spin.SpinMicros(ResetMicros)
	return nil
}

// writeByte sends b most-significant bit first.
func (e *Encoder) writeByte(b uint8) {
	for i := 0; i < 8; i++ {
		e.emit(b&0x80 != 0)
		b <<= 1
	}
}

// emit sends a single bit. The slot length is the same for both values.
func (e *Encoder) emit(one bool) {
	high, low := e.zeroHigh, e.zeroLow
	if one {
		high, low = e.oneHigh, e.oneLow
	}
	e.line.High()
	e.spin.SpinCycles(high)
	e.line.Low()
	e.spin.SpinCycles(low)
}
