// Package control sequences inputs, sampling, the two state machines and
// the strip output.
//
// The loop runs on a single thread. The only state it shares with
// interrupt context is the scheduler's elapsed flag.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/analog"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/config"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/indicator"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/input"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/timer"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/tuning"
)

// Hardware collects the collaborators of the loop.
type Hardware struct {
	Strip     ledstrip.Writer
	Port      indicator.Port
	A, B      *input.Button // A raises the threshold, B lowers it
	Sampler   *analog.Sampler
	Scheduler *timer.Scheduler
	// Delay busy-waits for the given duration.
	Delay func(time.Duration)
	// Peaks is optional.
	Peaks *analog.PeakMonitor
}

// Config of the loop.
type Config struct {
	LEDCount       int
	Bounds         tuning.Bounds
	SamplePeriodMs uint32
	FrameDelay     time.Duration
	BurstLength    int
}

// DefaultConfig returns the compile-time configuration.
func DefaultConfig() Config {
	return Config{
		LEDCount:       config.LEDCount,
		Bounds:         config.Bounds(),
		SamplePeriodMs: config.SamplePeriodMs,
		FrameDelay:     config.FrameDelay,
		BurstLength:    config.BurstLength,
	}
}

// ErrMissingHardware is returned by New when a required collaborator is nil.
var ErrMissingHardware = errors.New("missing hardware")

// Stats counts what the loop has done so far.
type Stats struct {
	Iterations  uint32
	Bursts      uint32
	Frames      uint32 // animation frames
	BlankFrames uint32
	Samples     uint32
	StripErrors uint32
	PortErrors  uint32
}

// Loop is the control loop.
type Loop struct {
	hw  Hardware
	cfg Config
	log *slog.Logger

	tuner *tuning.Machine
	ind   *indicator.Machine
	grad  ledstrip.Gradient
	frame []ledstrip.Color

	sample     uint16
	sampleErrs uint32
	stats      Stats
}

// New creates a loop. A nil logger logs to slog.Default().
func New(hw Hardware, cfg Config, log *slog.Logger) (*Loop, error) {
	switch {
	case hw.Strip == nil:
		return nil, fmt.Errorf("%w: strip", ErrMissingHardware)
	case hw.Port == nil:
		return nil, fmt.Errorf("%w: indicator port", ErrMissingHardware)
	case hw.A == nil || hw.B == nil:
		return nil, fmt.Errorf("%w: buttons", ErrMissingHardware)
	case hw.Sampler == nil:
		return nil, fmt.Errorf("%w: sampler", ErrMissingHardware)
	case hw.Scheduler == nil:
		return nil, fmt.Errorf("%w: scheduler", ErrMissingHardware)
	case hw.Delay == nil:
		return nil, fmt.Errorf("%w: delay", ErrMissingHardware)
	}
	if err := cfg.Bounds.Validate(); err != nil {
		return nil, fmt.Errorf("Bounds.Validate failed: %w", err)
	}
	if cfg.LEDCount <= 0 {
		return nil, fmt.Errorf("invalid LED count %d", cfg.LEDCount)
	}
	if cfg.BurstLength <= 0 {
		cfg.BurstLength = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		hw:    hw,
		cfg:   cfg,
		log:   log,
		tuner: tuning.New(cfg.Bounds),
		ind:   indicator.New(),
		frame: make([]ledstrip.Color, cfg.LEDCount),
	}, nil
}

// Init starts free-running conversion and the scheduler.
func (l *Loop) Init() error {
	if err := l.hw.Sampler.Init(); err != nil {
		return fmt.Errorf("Sampler.Init failed: %w", err)
	}
	l.hw.Scheduler.Configure(l.cfg.SamplePeriodMs)
	l.hw.Scheduler.Start()
	l.log.Info("control loop started",
		slog.Int("leds", l.cfg.LEDCount),
		slog.Uint64("sample_period_ms", uint64(l.cfg.SamplePeriodMs)),
		slog.Uint64("threshold", uint64(l.cfg.Bounds.Default)),
	)
	return nil
}

// Run initializes the loop and iterates until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Init(); err != nil {
		return err
	}
	defer l.hw.Scheduler.Stop()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Iterate(ctx); err != nil {
			return err
		}
	}
}

// Iterate runs one outer iteration: poll, tune, sample when due, evaluate
// the indicator, then either animate a burst or show a blank frame.
func (l *Loop) Iterate(ctx context.Context) error {
	l.stats.Iterations++
	l.pollInputs()
	l.sampleIfDue()
	l.evaluate()

	if l.ind.Active() {
		return l.burst(ctx)
	}
	ledstrip.Clear(l.frame)
	l.show()
	l.stats.BlankFrames++
	l.hw.Delay(l.cfg.FrameDelay)
	return nil
}

// burst animates the gradient for BurstLength sample periods. Between two
// flags the inputs keep being polled; the indicator is only re-evaluated
// when a new sample arrives.
func (l *Loop) burst(ctx context.Context) error {
	l.stats.Bursts++
	flag := l.hw.Scheduler.Flag()
	for n := 0; n < l.cfg.BurstLength; n++ {
		for !flag.Raised() {
			if err := ctx.Err(); err != nil {
				return err
			}
			l.pollInputs()
			l.grad.Fill(l.frame)
			l.show()
			l.stats.Frames++
			l.hw.Delay(l.cfg.FrameDelay)
			l.grad.Advance()
		}
		l.sampleIfDue()
		l.evaluate()
	}
	return nil
}

func (l *Loop) pollInputs() {
	a := l.hw.A.Poll()
	b := l.hw.B.Poll()
	before := l.tuner.Threshold()
	l.tuner.Step(a, b)
	if after := l.tuner.Threshold(); after != before {
		l.log.Info("threshold changed",
			slog.Uint64("threshold", uint64(after)),
			slog.Uint64("level", uint64(l.tuner.Level())),
		)
	}
}

// sampleIfDue captures a sample if the scheduler flag is raised and clears
// the flag.
func (l *Loop) sampleIfDue() {
	if !l.hw.Scheduler.Flag().Observe() {
		return
	}
	l.sample = l.hw.Sampler.Latest()
	l.stats.Samples++
	if errs := l.hw.Sampler.Errors(); errs != l.sampleErrs {
		l.sampleErrs = errs
		l.log.Warn("analog read failed",
			slog.Any("err", l.hw.Sampler.LastError()),
			slog.Uint64("errors", uint64(errs)),
		)
		return
	}
	if l.hw.Peaks != nil {
		if p := l.hw.Peaks.Observe(l.sample); p != analog.PeakNone {
			l.log.Debug("peak detected", slog.String("peak", p.String()), slog.Uint64("sample", uint64(l.sample)))
		}
	}
}

func (l *Loop) evaluate() {
	wasActive := l.ind.Active()
	l.ind.Step(l.sample, l.tuner.Threshold(), l.tuner.Level())
	if err := l.hw.Port.WriteBits(l.ind.Pattern()); err != nil {
		l.stats.PortErrors++
		l.log.Warn("indicator write failed", slog.Any("err", err))
	}
	if active := l.ind.Active(); active != wasActive {
		l.log.Info("indicator changed",
			slog.Bool("active", active),
			slog.Uint64("sample", uint64(l.sample)),
			slog.Uint64("threshold", uint64(l.tuner.Threshold())),
		)
	}
}

func (l *Loop) show() {
	if err := l.hw.Strip.WriteColors(l.frame); err != nil {
		l.stats.StripErrors++
		l.log.Warn("strip write failed", slog.Any("err", err))
	}
}

// Threshold returns the current threshold.
func (l *Loop) Threshold() uint16 { return l.tuner.Threshold() }

// Level returns the current tune level.
func (l *Loop) Level() uint8 { return l.tuner.Level() }

// Active reports whether the indicator is on.
func (l *Loop) Active() bool { return l.ind.Active() }

// Pattern returns the current indicator output pattern.
func (l *Loop) Pattern() uint8 { return l.ind.Pattern() }

// Sample returns the last captured sample.
func (l *Loop) Sample() uint16 { return l.sample }

// Frame returns the current color sequence. It is overwritten by the next
// iteration.
func (l *Loop) Frame() []ledstrip.Color { return l.frame }

// Stats returns the loop counters.
func (l *Loop) Stats() Stats { return l.stats }
