package control

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/analog"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/input"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/timer"
)

type fakeStrip struct {
	frames [][]ledstrip.Color
}

func (s *fakeStrip) WriteColors(colors []ledstrip.Color) error {
	s.frames = append(s.frames, append([]ledstrip.Color(nil), colors...))
	return nil
}

type fakePort struct {
	writes []uint8
}

func (p *fakePort) WriteBits(v uint8) error {
	p.writes = append(p.writes, v)
	return nil
}

type fakePin struct{ level bool }

func (p *fakePin) Get() bool { return p.level }

type fakeConverter struct {
	value uint16
	err   error
}

func (c *fakeConverter) StartFreeRunning() error { return nil }

func (c *fakeConverter) Latest() (uint16, error) { return c.value, c.err }

type rig struct {
	strip  *fakeStrip
	port   *fakePort
	a, b   *fakePin
	conv   *fakeConverter
	sched  *timer.Scheduler
	loop   *Loop
	delays int
	// onDelay is called after every delay, if set.
	onDelay func()
}

func newRig(t *testing.T, cfg Config) *rig {
	t.Helper()
	r := &rig{
		strip: &fakeStrip{},
		port:  &fakePort{},
		a:     &fakePin{},
		b:     &fakePin{},
		conv:  &fakeConverter{},
		sched: timer.New(nil, 1),
	}
	hw := Hardware{
		Strip:     r.strip,
		Port:      r.port,
		A:         input.NewButton(r.a, input.Config{Samples: 1}),
		B:         input.NewButton(r.b, input.Config{Samples: 1}),
		Sampler:   analog.NewSampler(r.conv),
		Scheduler: r.sched,
		Delay: func(d time.Duration) {
			r.delays++
			for i := time.Duration(0); i < d/time.Millisecond; i++ {
				r.sched.Tick()
			}
			if r.onDelay != nil {
				r.onDelay()
			}
		},
	}
	loop, err := New(hw, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r.loop = loop
	return r
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.LEDCount = 3
	cfg.BurstLength = 2
	return cfg
}

func (r *rig) iterate(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := r.loop.Iterate(context.Background()); err != nil {
			t.Fatalf("Iterate failed: %v", err)
		}
	}
}

func TestBelowThresholdShowsBlankFrames(t *testing.T) {
	r := newRig(t, testConfig())
	r.conv.value = 399
	if err := r.loop.Init(); err != nil {
		t.Fatal(err)
	}
	// 5 blank frames of 20 ms make up the first 100 ms sample period.
	r.iterate(t, 6)

	if got := r.loop.Sample(); got != 399 {
		t.Fatalf("sample %d, expected 399", got)
	}
	if r.loop.Active() {
		t.Fatal("indicator should be off")
	}
	if got := r.port.writes[len(r.port.writes)-1]; got != 0xFF {
		t.Fatalf("pattern %#x, expected 0xff", got)
	}
	if got := r.loop.Stats().BlankFrames; got != 6 {
		t.Fatalf("%d blank frames, expected 6", got)
	}
	for _, c := range r.strip.frames[len(r.strip.frames)-1] {
		if c != (ledstrip.Color{}) {
			t.Fatalf("frame not blank: %v", c)
		}
	}
}

func TestAboveThresholdAnimatesBurst(t *testing.T) {
	r := newRig(t, testConfig())
	r.conv.value = 450
	if err := r.loop.Init(); err != nil {
		t.Fatal(err)
	}
	r.iterate(t, 6)

	if !r.loop.Active() {
		t.Fatal("indicator should be on")
	}
	if got := r.loop.Pattern(); got != 0x7F {
		t.Fatalf("pattern %#x, expected 0x7f", got)
	}
	st := r.loop.Stats()
	if st.Bursts != 1 || st.Frames != 10 {
		t.Fatalf("bursts=%d frames=%d, expected 1 and 10", st.Bursts, st.Frames)
	}
	if st.Samples != 3 {
		t.Fatalf("%d samples, expected 3", st.Samples)
	}
	first := r.strip.frames[5]
	want := []ledstrip.Color{{R: 0, G: 255, B: 0}, {R: 248, G: 7, B: 248}, {R: 240, G: 15, B: 240}}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("LED %d: got %v, expected %v", i, first[i], want[i])
		}
	}
	last := r.strip.frames[len(r.strip.frames)-1]
	for i, c := range r.loop.Frame() {
		if c != last[i] {
			t.Errorf("Frame LED %d: got %v, last written %v", i, c, last[i])
		}
	}
}

func TestIndicatorFollowsSampleDuringBurst(t *testing.T) {
	r := newRig(t, testConfig())
	r.conv.value = 450
	r.onDelay = func() {
		if r.delays == 7 {
			r.conv.value = 100
		}
	}
	if err := r.loop.Init(); err != nil {
		t.Fatal(err)
	}
	r.iterate(t, 6)

	if r.loop.Active() {
		t.Fatal("indicator should be off after the sample dropped")
	}
	if got := r.loop.Pattern(); got != 0xFF {
		t.Fatalf("pattern %#x, expected 0xff", got)
	}
}

func TestButtonStepsThresholdOncePerGesture(t *testing.T) {
	r := newRig(t, testConfig())
	if err := r.loop.Init(); err != nil {
		t.Fatal(err)
	}
	r.a.level = true
	// Start, Hold -> Add, Add -> Wait
	r.iterate(t, 3)
	if got := r.loop.Threshold(); got != 410 {
		t.Fatalf("threshold %d, expected 410", got)
	}
	r.iterate(t, 10)
	if got := r.loop.Threshold(); got != 410 {
		t.Fatalf("held button stepped again: %d", got)
	}
	r.a.level = false
	r.iterate(t, 2)
	r.a.level = true
	r.iterate(t, 2)
	if got, lvl := r.loop.Threshold(), r.loop.Level(); got != 420 || lvl != 2 {
		t.Fatalf("threshold %d level %d, expected 420 and 2", got, lvl)
	}
}

func TestSamplerErrorKeepsPreviousSample(t *testing.T) {
	r := newRig(t, testConfig())
	r.conv.value = 123
	if err := r.loop.Init(); err != nil {
		t.Fatal(err)
	}
	r.iterate(t, 6)
	r.conv.err = errors.New("bus error")
	r.conv.value = 999
	r.iterate(t, 5)

	if got := r.loop.Sample(); got != 123 {
		t.Fatalf("sample %d, expected 123", got)
	}
	if got := r.loop.Stats().Samples; got != 2 {
		t.Fatalf("%d samples, expected 2", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newRig(t, testConfig())
	r.conv.value = 450
	ctx, cancel := context.WithCancel(context.Background())
	r.onDelay = func() {
		if r.delays == 8 {
			cancel()
		}
	}
	err := r.loop.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if r.sched.Running() {
		t.Fatal("scheduler still running")
	}
	if r.loop.Stats().Frames != 3 {
		t.Fatalf("%d frames, expected 3", r.loop.Stats().Frames)
	}
}

func TestNewRequiresHardware(t *testing.T) {
	_, err := New(Hardware{}, testConfig(), nil)
	if !errors.Is(err, ErrMissingHardware) {
		t.Fatalf("expected ErrMissingHardware, got %v", err)
	}
}
