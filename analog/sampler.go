// Package analog provides the free-running analog sampler.
package analog

// Converter is an analog-to-digital converter that can convert
// continuously, retriggering itself after every conversion.
type Converter interface {
	// StartFreeRunning starts continuous conversion.
	StartFreeRunning() error
	// Latest returns the most recently completed conversion.
	Latest() (uint16, error)
}

// Sampler exposes the latest sample of a free-running converter.
type Sampler struct {
	conv    Converter
	last    uint16
	errs    uint32
	lastErr error
}

// NewSampler creates a sampler for the given converter.
func NewSampler(conv Converter) *Sampler {
	return &Sampler{conv: conv}
}

// Init starts continuous conversion. Conversion never stops once started.
func (s *Sampler) Init() error {
	return s.conv.StartFreeRunning()
}

// Latest returns the most recently completed sample. When the converter
// cannot be read the previous sample is returned and the error is counted.
func (s *Sampler) Latest() uint16 {
	v, err := s.conv.Latest()
	if err != nil {
		s.errs++
		s.lastErr = err
		return s.last
	}
	s.last = v
	return v
}

// Errors returns the number of failed reads so far.
func (s *Sampler) Errors() uint32 { return s.errs }

// LastError returns the most recent read error, if any.
func (s *Sampler) LastError() error { return s.lastErr }
