package timer

import "sync/atomic"

// Source is the hardware timer that calls Scheduler.Tick at a fixed rate.
type Source interface {
	Enable()
	Disable()
}

// Scheduler turns a fixed-rate hardware tick into a periodic elapsed flag.
//
// Tick runs in interrupt context and is the only writer of the countdown.
// Configure must be called while the scheduler is stopped or with
// interrupts masked.
type Scheduler struct {
	src        Source
	flag       Flag
	ticksPerMs uint32
	period     uint32 // in ticks
	remaining  uint32
	running    atomic.Bool
}

// New creates a stopped scheduler with a 1 ms period.
// ticksPerMs==0 is coerced to 1.
func New(src Source, ticksPerMs uint32) *Scheduler {
	if ticksPerMs == 0 {
		ticksPerMs = 1
	}
	s := &Scheduler{
		src:        src,
		ticksPerMs: ticksPerMs,
	}
	s.Configure(1)
	return s
}

// Configure sets the period after which the flag is raised.
// periodMs==0 is coerced to 1.
func (s *Scheduler) Configure(periodMs uint32) {
	if periodMs == 0 {
		periodMs = 1
	}
	s.period = periodMs * s.ticksPerMs
	s.remaining = s.period
}

// PeriodTicks returns the configured period in hardware ticks.
func (s *Scheduler) PeriodTicks() uint32 { return s.period }

// Start reloads the countdown and enables the hardware tick.
func (s *Scheduler) Start() {
	s.remaining = s.period
	s.running.Store(true)
	if s.src != nil {
		s.src.Enable()
	}
}

// Stop disables the hardware tick. A raised flag stays raised.
func (s *Scheduler) Stop() {
	s.running.Store(false)
	if s.src != nil {
		s.src.Disable()
	}
}

// Running reports whether the scheduler is started.
func (s *Scheduler) Running() bool { return s.running.Load() }

// Flag returns the elapsed flag raised by this scheduler.
func (s *Scheduler) Flag() *Flag { return &s.flag }

// Tick is the hardware tick handler: decrement, compare, reload, raise.
func (s *Scheduler) Tick() {
	if !s.running.Load() {
		return
	}
	s.remaining--
	if s.remaining == 0 {
		s.flag.Raise()
		s.remaining = s.period
	}
}
