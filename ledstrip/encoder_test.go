package ledstrip

import "testing"

// recorder implements Line, Spinner and Interrupts on a cycle counter.
type recorder struct {
	now      uint64
	high     bool
	masked   bool
	rise     uint64
	widths   []uint64 // high time of each pulse
	slots    []uint64 // rising edge to next rising edge
	lastRise uint64
	pulses   int
	maskedAt []bool // masked state at each rising edge
	quietUs  []uint16
	restored bool
}

func (r *recorder) High() {
	if r.high {
		return
	}
	if r.pulses > 0 {
		r.slots = append(r.slots, r.now-r.lastRise)
	}
	r.high = true
	r.rise = r.now
	r.lastRise = r.now
	r.pulses++
	r.maskedAt = append(r.maskedAt, r.masked)
}

func (r *recorder) Low() {
	if !r.high {
		return
	}
	r.high = false
	r.widths = append(r.widths, r.now-r.rise)
}

func (r *recorder) SpinCycles(n uint16) { r.now += uint64(n) }

func (r *recorder) SpinMicros(us uint16) {
	if r.masked {
		panic("quiet period with interrupts masked")
	}
	r.quietUs = append(r.quietUs, us)
}

func (r *recorder) Disable() uintptr {
	prev := uintptr(1)
	if r.masked {
		prev = 0
	}
	r.masked = true
	return prev
}

func (r *recorder) Restore(state uintptr) {
	r.masked = state == 0
	r.restored = true
}

func TestEncoderThreeLEDsAt8MHz(t *testing.T) {
	rec := &recorder{}
	enc := NewEncoder(rec, rec, rec, Profile8MHz, OrderRGB)
	colors := []Color{{10, 20, 30}, {0, 0, 0}, {255, 255, 255}}

	if err := enc.WriteColors(colors); err != nil {
		t.Fatalf("WriteColors failed: %v", err)
	}
	if rec.pulses != 72 {
		t.Fatalf("expected 72 pulses, got %d", rec.pulses)
	}
	if len(rec.quietUs) != 1 || rec.quietUs[0] != 80 {
		t.Fatalf("expected a single 80us quiet period, got %v", rec.quietUs)
	}
	if !rec.restored || rec.masked {
		t.Fatal("interrupts were not restored")
	}
	for i, m := range rec.maskedAt {
		if !m {
			t.Fatalf("pulse %d sent with interrupts enabled", i)
		}
	}
	if rec.high {
		t.Fatal("line left high")
	}
}

func TestEncoderBitsMostSignificantFirst(t *testing.T) {
	rec := &recorder{}
	enc := NewEncoder(rec, rec, rec, Profile20MHz, OrderRGB)
	enc.WriteColors([]Color{{R: 0xA5, G: 0x01, B: 0x80}})

	want := "10100101" + "00000001" + "10000000"
	one := uint64(Profile20MHz.OneHighCycles())
	zero := uint64(Profile20MHz.ZeroHighCycles())
	for i, w := range rec.widths {
		switch {
		case want[i] == '1' && w != one:
			t.Errorf("bit %d: expected one pulse (%d), got %d", i, one, w)
		case want[i] == '0' && w != zero:
			t.Errorf("bit %d: expected zero pulse (%d), got %d", i, zero, w)
		}
	}
}

func TestEncoderChannelOrderGRB(t *testing.T) {
	rec := &recorder{}
	enc := NewEncoder(rec, rec, rec, Profile16MHz, OrderGRB)
	enc.WriteColors([]Color{{R: 0xFF, G: 0x00, B: 0x00}})

	one := uint64(Profile16MHz.OneHighCycles())
	for i, w := range rec.widths {
		isOne := w == one
		inRed := i >= 8 && i < 16
		if isOne != inRed {
			t.Fatalf("bit %d: one=%v, expected red byte in second position", i, isOne)
		}
	}
}

func TestEncoderEqualSlots(t *testing.T) {
	for _, p := range Profiles {
		rec := &recorder{}
		enc := NewEncoder(rec, rec, rec, p, OrderRGB)
		enc.WriteColors([]Color{{0x0F, 0xF0, 0x55}, {0xAA, 0x00, 0xFF}})
		period := uint64(p.PeriodCycles())
		for i, s := range rec.slots {
			if s != period {
				t.Fatalf("%s: slot %d is %d cycles, expected %d", p.Name, i, s, period)
			}
		}
	}
}

func TestEncoderCountClamped(t *testing.T) {
	rec := &recorder{}
	enc := NewEncoder(rec, rec, rec, Profile8MHz, OrderRGB)
	colors := make([]Color, 4)

	enc.Write(colors, 2)
	if rec.pulses != 2*BitsPerColor {
		t.Fatalf("expected %d pulses, got %d", 2*BitsPerColor, rec.pulses)
	}
	rec.pulses = 0
	enc.Write(colors, 10)
	if rec.pulses != 4*BitsPerColor {
		t.Fatalf("expected %d pulses, got %d", 4*BitsPerColor, rec.pulses)
	}
}

func TestEncoderNegativeCount(t *testing.T) {
	rec := &recorder{}
	enc := NewEncoder(rec, rec, rec, Profile8MHz, OrderRGB)

	if err := enc.Write(make([]Color, 4), -1); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if rec.pulses != 0 {
		t.Fatalf("expected no pulses, got %d", rec.pulses)
	}
	if rec.masked || !rec.restored {
		t.Fatal("interrupts not restored")
	}
	if len(rec.quietUs) != 1 || rec.quietUs[0] != ResetMicros {
		t.Fatalf("expected one %d us quiet period, got %v", ResetMicros, rec.quietUs)
	}
}

func TestEncoderSixtyLEDs(t *testing.T) {
	rec := &recorder{}
	enc := NewEncoder(rec, rec, rec, Profile8MHz, OrderGRB)
	frame := make([]Color, 60)
	var g Gradient
	g.Fill(frame)
	enc.WriteColors(frame)
	if rec.pulses != 60*BitsPerColor {
		t.Fatalf("expected %d pulses, got %d", 60*BitsPerColor, rec.pulses)
	}
	// Transmission time is the bit count times the slot length.
	if rec.now != 60*24*uint64(Profile8MHz.PeriodCycles()) {
		t.Fatalf("unexpected transmission length %d cycles", rec.now)
	}
}
