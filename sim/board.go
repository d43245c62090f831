package sim

import (
	"errors"
	"time"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/input"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/timer"
)

const (
	picosPerNano  = 1_000
	picosPerMicro = 1_000_000
	picosPerMilli = 1_000_000_000

	// The strip latches after the line has been low this long.
	latchPicos = 50 * picosPerMicro
	// High pulses longer than this decode as a one bit.
	oneBitNanos = 600
)

var (
	// ErrNotStarted is returned by Board.Latest before free-running
	// conversion has been started.
	ErrNotStarted = errors.New("converter not started")
	// ErrReadFailed is returned by Board.Latest while the stimulus fails
	// reads.
	ErrReadFailed = errors.New("conversion read failed")
)

// Stimulus drives the board inputs as a function of virtual time.
type Stimulus interface {
	// Analog returns the converter input at t, or ok=false if a read
	// at t fails.
	Analog(t time.Duration) (value uint16, ok bool)
	// Pressed returns the pressed state of both buttons at t.
	Pressed(t time.Duration) (a, b bool)
}

// Frame is a color sequence latched by the strip.
type Frame struct {
	At     time.Duration
	Colors []ledstrip.Color
	Bits   int
}

// Blank reports whether every LED is off.
func (f Frame) Blank() bool {
	for _, c := range f.Colors {
		if c != (ledstrip.Color{}) {
			return false
		}
	}
	return true
}

// PatternWrite is a change of the indicator outputs.
type PatternWrite struct {
	At      time.Duration
	Pattern uint8
}

// Board is a virtual microcontroller with a WS2812 strip on one output
// line, a 1 kHz timer, a free-running converter, two active-low buttons and
// an 8-bit indicator port. Time only advances when the code under test
// busy-waits, so a run is fully deterministic.
type Board struct {
	prof      ledstrip.Profile
	order     ledstrip.ChannelOrder
	picosPerC uint64
	stim      Stimulus

	now uint64 // picoseconds

	// timer
	timerOn  bool
	nextTick uint64
	onTick   func()
	masked   bool
	pending  bool
	ticks    uint64
	lost     uint64

	// data line
	high      bool
	riseAt    uint64
	fallAt    uint64
	bits      []bool
	slotStart uint64
	badPulses uint64
	badSlots  uint64
	frames    []Frame

	converting bool
	readErrs   uint64

	pattern  uint8
	patterns []PatternWrite

	deadline uint64
	expire   func()
}

// NewBoard creates a board clocked for the given strip profile. The strip
// decodes channels in the given order.
func NewBoard(prof ledstrip.Profile, order ledstrip.ChannelOrder, stim Stimulus) *Board {
	return &Board{
		prof:      prof,
		order:     order,
		picosPerC: 1_000_000_000_000 / uint64(prof.ClockHz),
		stim:      stim,
		pattern:   0xFF,
	}
}

// OnTick sets the timer interrupt handler.
func (b *Board) OnTick(f func()) { b.onTick = f }

// SetDeadline calls expire once virtual time reaches d.
func (b *Board) SetDeadline(d time.Duration, expire func()) {
	b.deadline = uint64(d.Nanoseconds()) * picosPerNano
	b.expire = expire
}

// Now returns the virtual time.
func (b *Board) Now() time.Duration { return time.Duration(b.now / picosPerNano) }

// advance moves virtual time forward, delivering timer ticks on the way.
func (b *Board) advance(picos uint64) {
	end := b.now + picos
	for b.timerOn && b.nextTick <= end {
		b.now = b.nextTick
		b.nextTick += picosPerMilli
		b.ticks++
		if b.masked {
			if b.pending {
				b.lost++
			}
			b.pending = true
			continue
		}
		b.fire()
	}
	b.now = end
	if b.expire != nil && b.now >= b.deadline {
		expire := b.expire
		b.expire = nil
		expire()
	}
}

func (b *Board) fire() {
	if b.onTick != nil {
		b.onTick()
	}
}

// Timer returns the 1 kHz timer as a timer.Source.
func (b *Board) Timer() timer.Source { return (*boardTimer)(b) }

type boardTimer Board

func (t *boardTimer) Enable() {
	if !t.timerOn {
		t.timerOn = true
		t.nextTick = t.now + picosPerMilli
	}
}

func (t *boardTimer) Disable() { t.timerOn = false }

// Disable implements ledstrip.Interrupts.
func (b *Board) Disable() uintptr {
	var prev uintptr
	if b.masked {
		prev = 1
	}
	b.masked = true
	return prev
}

// Restore implements ledstrip.Interrupts. A tick that arrived while
// interrupts were masked is delivered now.
func (b *Board) Restore(state uintptr) {
	b.masked = state != 0
	if !b.masked && b.pending {
		b.pending = false
		b.fire()
	}
}

// High implements ledstrip.Line.
func (b *Board) High() {
	if b.high {
		return
	}
	b.latchIfIdle()
	if len(b.bits) > 0 && b.now-b.slotStart != uint64(b.prof.PeriodCycles())*b.picosPerC {
		b.badSlots++
	}
	b.high = true
	b.riseAt = b.now
	b.slotStart = b.now
}

// Low implements ledstrip.Line.
func (b *Board) Low() {
	if !b.high {
		return
	}
	b.high = false
	b.fallAt = b.now
	ns := (b.now - b.riseAt) / picosPerNano
	one := ns > oneBitNanos
	if one && (ns < 650 || ns > 950) || !one && (ns < 250 || ns > 550) {
		b.badPulses++
	}
	b.bits = append(b.bits, one)
}

// SpinCycles implements ledstrip.Spinner.
func (b *Board) SpinCycles(n uint16) { b.advance(uint64(n) * b.picosPerC) }

// SpinMicros implements ledstrip.Spinner.
func (b *Board) SpinMicros(us uint16) {
	b.advance(uint64(us) * picosPerMicro)
	b.latchIfIdle()
}

// Delay busy-waits for d.
func (b *Board) Delay(d time.Duration) {
	b.advance(uint64(d.Nanoseconds()) * picosPerNano)
	b.latchIfIdle()
}

// latchIfIdle completes a frame once the line has been low long enough.
func (b *Board) latchIfIdle() {
	if b.high || len(b.bits) == 0 || b.now-b.fallAt < latchPicos {
		return
	}
	f := Frame{At: time.Duration(b.fallAt / picosPerNano), Bits: len(b.bits)}
	for i := 0; i+ledstrip.BitsPerColor <= len(b.bits); i += ledstrip.BitsPerColor {
		var ch [3]uint8
		for j := range ch {
			for _, bit := range b.bits[i+8*j : i+8*j+8] {
				ch[j] <<= 1
				if bit {
					ch[j] |= 1
				}
			}
		}
		f.Colors = append(f.Colors, b.decode(ch))
	}
	b.frames = append(b.frames, f)
	b.bits = b.bits[:0]
}

func (b *Board) decode(ch [3]uint8) ledstrip.Color {
	if b.order == ledstrip.OrderGRB {
		return ledstrip.Color{R: ch[1], G: ch[0], B: ch[2]}
	}
	return ledstrip.Color{R: ch[0], G: ch[1], B: ch[2]}
}

// StartFreeRunning implements analog.Converter.
func (b *Board) StartFreeRunning() error {
	b.converting = true
	return nil
}

// Latest implements analog.Converter.
func (b *Board) Latest() (uint16, error) {
	if !b.converting {
		return 0, ErrNotStarted
	}
	v, ok := b.stim.Analog(b.Now())
	if !ok {
		b.readErrs++
		return 0, ErrReadFailed
	}
	return v, nil
}

// WriteBits implements indicator.Port.
func (b *Board) WriteBits(v uint8) error {
	if v != b.pattern {
		b.patterns = append(b.patterns, PatternWrite{At: b.Now(), Pattern: v})
	}
	b.pattern = v
	return nil
}

type buttonPin struct {
	b     *Board
	first bool
}

// Get returns the line level; the buttons pull their line low.
func (p buttonPin) Get() bool {
	a, b := p.b.stim.Pressed(p.b.Now())
	if p.first {
		return !a
	}
	return !b
}

// ButtonA returns the line of the button that raises the threshold.
func (b *Board) ButtonA() input.Pin { return buttonPin{b: b, first: true} }

// ButtonB returns the line of the button that lowers the threshold.
func (b *Board) ButtonB() input.Pin { return buttonPin{b: b} }

// Frames returns all latched frames.
func (b *Board) Frames() []Frame { return b.frames }

// Patterns returns all indicator changes.
func (b *Board) Patterns() []PatternWrite { return b.patterns }

// Pattern returns the current indicator pattern.
func (b *Board) Pattern() uint8 { return b.pattern }

// Ticks returns the number of timer ticks and how many of them were lost
// because an earlier tick was still pending while interrupts were masked.
func (b *Board) Ticks() (total, lost uint64) { return b.ticks, b.lost }

// TimingErrors returns the number of pulses outside WS2812 tolerance and
// bit slots that differ from the profile period.
func (b *Board) TimingErrors() (pulses, slots uint64) { return b.badPulses, b.badSlots }

// ReadErrors returns the number of failed converter reads.
func (b *Board) ReadErrors() uint64 { return b.readErrs }
