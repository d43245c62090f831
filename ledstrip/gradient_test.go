package ledstrip

import (
	"image/color"
	"testing"
)

func TestGradientFill(t *testing.T) {
	var g Gradient
	frame := make([]Color, 4)
	g.Fill(frame)
	want := []Color{{0, 255, 0}, {248, 7, 248}, {240, 15, 240}, {232, 23, 232}}
	for i := range want {
		if frame[i] != want[i] {
			t.Errorf("led %d: got %v, expected %v", i, frame[i], want[i])
		}
	}

	for i := 0; i < 4; i++ {
		g.Advance()
	}
	g.Fill(frame)
	if g.Time() != 40 || frame[0] != (Color{10, 245, 10}) {
		t.Fatalf("after 4 frames: t=%d led0=%v", g.Time(), frame[0])
	}
}

func TestGradientWraps(t *testing.T) {
	g := Gradient{t: 65530}
	g.Advance()
	if g.Time() != 4 {
		t.Fatalf("expected wrap to 4, got %d", g.Time())
	}
}

func TestClear(t *testing.T) {
	frame := []Color{{1, 2, 3}, {4, 5, 6}}
	Clear(frame)
	for i, c := range frame {
		if c != (Color{}) {
			t.Fatalf("led %d not cleared: %v", i, c)
		}
	}
}

func TestColorConversions(t *testing.T) {
	c := Color{R: 0x12, G: 0x34, B: 0x56}
	if got := FromColor(c); got != c {
		t.Fatalf("round trip through color.Color: %v", got)
	}
	if got := c.ToRGBA(); got != (color.RGBA{0x12, 0x34, 0x56, 0xff}) {
		t.Fatalf("ToRGBA: %v", got)
	}
}
