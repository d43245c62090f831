package sim

import (
	"testing"
	"time"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
)

func TestBoardDecodesFrame(t *testing.T) {
	for _, order := range []ledstrip.ChannelOrder{ledstrip.OrderRGB, ledstrip.OrderGRB} {
		board := NewBoard(ledstrip.Profile8MHz, order, &Scenario{})
		enc := ledstrip.NewEncoder(board, board, board, ledstrip.Profile8MHz, order)
		colors := []ledstrip.Color{{R: 10, G: 20, B: 30}, {}, {R: 255, G: 255, B: 255}}
		if err := enc.WriteColors(colors); err != nil {
			t.Fatal(err)
		}

		frames := board.Frames()
		if len(frames) != 1 {
			t.Fatalf("%s: %d frames, expected 1", order, len(frames))
		}
		if frames[0].Bits != 72 {
			t.Fatalf("%s: %d bits, expected 72", order, frames[0].Bits)
		}
		for i, c := range colors {
			if frames[0].Colors[i] != c {
				t.Errorf("%s: LED %d decoded as %v, expected %v", order, i, frames[0].Colors[i], c)
			}
		}
		if pulses, slots := board.TimingErrors(); pulses != 0 || slots != 0 {
			t.Errorf("%s: %d bad pulses, %d bad slots", order, pulses, slots)
		}
		// 72 slots of 17 cycles at 125ns, then the 80us latch.
		if want := 72*17*125*time.Nanosecond + 80*time.Microsecond; board.Now() != want {
			t.Errorf("%s: elapsed %v, expected %v", order, board.Now(), want)
		}
	}
}

func TestBoardCollapsesTicksWhileMasked(t *testing.T) {
	board := NewBoard(ledstrip.Profile8MHz, ledstrip.OrderRGB, &Scenario{})
	fired := 0
	board.OnTick(func() { fired++ })
	board.Timer().Enable()

	board.SpinMicros(1500)
	if fired != 1 {
		t.Fatalf("%d ticks delivered, expected 1", fired)
	}

	state := board.Disable()
	board.SpinMicros(3000)
	if fired != 1 {
		t.Fatalf("tick delivered while masked")
	}
	board.Restore(state)
	if fired != 2 {
		t.Fatalf("pending tick not delivered on restore")
	}
	if total, lost := board.Ticks(); total != 4 || lost != 2 {
		t.Fatalf("ticks=%d lost=%d, expected 4 and 2", total, lost)
	}
}

func TestBoardNestedMask(t *testing.T) {
	board := NewBoard(ledstrip.Profile8MHz, ledstrip.OrderRGB, &Scenario{})
	fired := 0
	board.OnTick(func() { fired++ })
	board.Timer().Enable()

	outer := board.Disable()
	inner := board.Disable()
	board.SpinMicros(1000)
	board.Restore(inner)
	if fired != 0 {
		t.Fatal("inner restore unmasked interrupts")
	}
	board.Restore(outer)
	if fired != 1 {
		t.Fatalf("%d ticks delivered, expected 1", fired)
	}
}

func TestBoardDeadline(t *testing.T) {
	board := NewBoard(ledstrip.Profile8MHz, ledstrip.OrderRGB, &Scenario{})
	expired := 0
	board.SetDeadline(50*time.Millisecond, func() { expired++ })
	board.Delay(40 * time.Millisecond)
	if expired != 0 {
		t.Fatal("expired early")
	}
	board.Delay(20 * time.Millisecond)
	board.Delay(20 * time.Millisecond)
	if expired != 1 {
		t.Fatalf("expired %d times, expected 1", expired)
	}
}

func TestBoardButtonsAreActiveLow(t *testing.T) {
	sc := &Scenario{Timeline: []Event{{AtMs: 10, Press: "a", HoldMs: 5}}}
	board := NewBoard(ledstrip.Profile8MHz, ledstrip.OrderRGB, sc)
	a, b := board.ButtonA(), board.ButtonB()
	if !a.Get() || !b.Get() {
		t.Fatal("released buttons should read high")
	}
	board.Delay(12 * time.Millisecond)
	if a.Get() || !b.Get() {
		t.Fatal("button a should read low")
	}
	board.Delay(5 * time.Millisecond)
	if !a.Get() {
		t.Fatal("button a should be released")
	}
}
