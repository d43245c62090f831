package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/analog"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/config"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/control"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/input"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/timer"
)

// Report is the outcome of a scenario run.
type Report struct {
	Name    string
	Profile string
	Elapsed time.Duration // virtual

	Threshold uint16
	Level     uint8
	Active    bool
	Pattern   uint8
	Sample    uint16

	Frames      int
	BlankFrames int
	Patterns    []PatternWrite
	Ticks       uint64
	LostTicks   uint64
	BadPulses   uint64
	BadSlots    uint64
	ReadErrors  uint64
	Stats       control.Stats

	expect Expect
}

// Run executes the scenario until its duration has elapsed in virtual time
// or ctx is done.
func Run(ctx context.Context, sc *Scenario, log *slog.Logger) (Report, error) {
	if err := sc.Validate(); err != nil {
		return Report{}, err
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("scenario", sc.Name))

	prof := config.StripProfile
	if sc.ClockHz != 0 {
		p, err := ledstrip.Lookup(sc.ClockHz)
		if err != nil {
			return Report{}, fmt.Errorf("Lookup failed: %w", err)
		}
		prof = p
	}
	cfg := control.DefaultConfig()
	if sc.LEDCount > 0 {
		cfg.LEDCount = sc.LEDCount
	}

	board := NewBoard(prof, config.ColorOrder, sc)
	sched := timer.New(board.Timer(), config.TicksPerMs)
	board.OnTick(sched.Tick)

	peaks, err := analog.NewPeakMonitor(analog.DefaultPeakConfig)
	if err != nil {
		return Report{}, fmt.Errorf("NewPeakMonitor failed: %w", err)
	}
	hw := control.Hardware{
		Strip:     ledstrip.NewEncoder(board, board, board, prof, config.ColorOrder),
		Port:      board,
		A:         input.NewButton(board.ButtonA(), input.Config{ActiveLow: true, Samples: config.InputSamples}),
		B:         input.NewButton(board.ButtonB(), input.Config{ActiveLow: true, Samples: config.InputSamples}),
		Sampler:   analog.NewSampler(board),
		Scheduler: sched,
		Delay:     board.Delay,
		Peaks:     peaks,
	}
	loop, err := control.New(hw, cfg, log)
	if err != nil {
		return Report{}, fmt.Errorf("control.New failed: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	board.SetDeadline(sc.Duration(), cancel)

	log.Debug("scenario started", slog.String("profile", prof.Name), slog.Duration("duration", sc.Duration()))
	if err := loop.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return Report{}, fmt.Errorf("control loop failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	r := Report{
		Name:      sc.Name,
		Profile:   prof.Name,
		Elapsed:   board.Now(),
		Threshold: loop.Threshold(),
		Level:     loop.Level(),
		Active:    loop.Active(),
		Pattern:   board.Pattern(),
		Sample:    loop.Sample(),
		Patterns:  board.Patterns(),
		Stats:     loop.Stats(),
		expect:    sc.Expect,
	}
	for _, f := range board.Frames() {
		if f.Blank() {
			r.BlankFrames++
		}
	}
	r.Frames = len(board.Frames())
	r.Ticks, r.LostTicks = board.Ticks()
	r.BadPulses, r.BadSlots = board.TimingErrors()
	r.ReadErrors = board.ReadErrors()
	return r, nil
}

// Check compares the report against the scenario expectations. Pulse
// timing errors always fail.
func (r Report) Check() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	e := r.expect
	if r.BadPulses > 0 || r.BadSlots > 0 {
		fail("%d pulses and %d bit slots out of tolerance", r.BadPulses, r.BadSlots)
	}
	if e.Threshold != nil && *e.Threshold != r.Threshold {
		fail("threshold %d, expected %d", r.Threshold, *e.Threshold)
	}
	if e.Level != nil && *e.Level != r.Level {
		fail("level %d, expected %d", r.Level, *e.Level)
	}
	if e.Indicator != "" && e.Indicator != onOff(r.Active) {
		fail("indicator %s, expected %s", onOff(r.Active), e.Indicator)
	}
	if e.Pattern != nil && *e.Pattern != r.Pattern {
		fail("pattern %#02x, expected %#02x", r.Pattern, *e.Pattern)
	}
	if r.Frames-r.BlankFrames < e.MinFrames {
		fail("%d animated frames, expected at least %d", r.Frames-r.BlankFrames, e.MinFrames)
	}
	if r.BlankFrames < e.MinBlankFrames {
		fail("%d blank frames, expected at least %d", r.BlankFrames, e.MinBlankFrames)
	}
	if r.ReadErrors < e.MinReadErrors {
		fail("%d read errors, expected at least %d", r.ReadErrors, e.MinReadErrors)
	}
	if len(errs) > 0 {
		return fmt.Errorf("scenario %q: %w", r.Name, errors.Join(errs...))
	}
	return nil
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("profile", r.Profile),
		slog.Duration("elapsed", r.Elapsed),
		slog.Uint64("threshold", uint64(r.Threshold)),
		slog.Uint64("level", uint64(r.Level)),
		slog.String("indicator", onOff(r.Active)),
		slog.String("pattern", fmt.Sprintf("%#02x", r.Pattern)),
		slog.Int("frames", r.Frames),
		slog.Int("blank_frames", r.BlankFrames),
		slog.Uint64("ticks", r.Ticks),
		slog.Uint64("lost_ticks", r.LostTicks),
		slog.Uint64("read_errors", r.ReadErrors),
	)
}

func onOff(active bool) string {
	if active {
		return "on"
	}
	return "off"
}
