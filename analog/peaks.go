package analog

import (
	"fmt"

	"github.com/MicahParks/peakdetect"
)

// Peak classifies a sample relative to the recent signal.
type Peak int8

const (
	PeakFalling Peak = -1
	PeakNone    Peak = 0
	PeakRising  Peak = 1
)

func (p Peak) String() string {
	switch p {
	case PeakFalling:
		return "falling"
	case PeakRising:
		return "rising"
	default:
		return "none"
	}
}

// PeakConfig configures a PeakMonitor.
type PeakConfig struct {
	Lag       int     // samples used to prime the detector
	Threshold float64 // z-score at which a sample counts as a peak
	Influence float64 // weight of a peak sample on the running statistics
}

// DefaultPeakConfig suits a 10-bit sample taken every 100 ms.
var DefaultPeakConfig = PeakConfig{Lag: 10, Threshold: 3.5, Influence: 0.5}

// PeakMonitor detects spikes in the captured sample stream.
type PeakMonitor struct {
	cfg      PeakConfig
	detector peakdetect.PeakDetector
	priming  []float64
	ready    bool
}

// NewPeakMonitor creates a monitor. It reports PeakNone until cfg.Lag
// samples have been observed.
func NewPeakMonitor(cfg PeakConfig) (*PeakMonitor, error) {
	if cfg.Lag < 2 {
		return nil, fmt.Errorf("peak monitor lag must be at least 2, got %d", cfg.Lag)
	}
	return &PeakMonitor{
		cfg:      cfg,
		detector: peakdetect.NewPeakDetector(),
		priming:  make([]float64, 0, cfg.Lag),
	}, nil
}

// Observe feeds one sample to the detector.
func (m *PeakMonitor) Observe(sample uint16) Peak {
	v := float64(sample)
	if !m.ready {
		m.priming = append(m.priming, v)
		if len(m.priming) < m.cfg.Lag {
			return PeakNone
		}
		if err := m.detector.Initialize(m.cfg.Influence, m.cfg.Threshold, m.priming); err != nil {
			// Start over with a fresh window.
			m.priming = m.priming[:0]
			return PeakNone
		}
		m.ready = true
		return PeakNone
	}
	switch m.detector.Next(v) {
	case peakdetect.SignalPositive:
		return PeakRising
	case peakdetect.SignalNegative:
		return PeakFalling
	default:
		return PeakNone
	}
}

// Ready reports whether the priming window is complete.
func (m *PeakMonitor) Ready() bool { return m.ready }
