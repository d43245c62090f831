//go:build tinygo && avr && !ads1115

package main

import (
	"device/avr"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/analog"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
)

// internalADC is the on-chip converter on ADC0 in free running mode.
type internalADC struct{}

// StartFreeRunning implements analog.Converter.
func (internalADC) StartFreeRunning() error {
	// Free running is the default auto trigger source (ADCSRB=0).
	avr.ADCSRB.Set(0)
	avr.ADMUX.Set(0)
	avr.ADCSRA.SetBits(avr.ADCSRA_ADEN | avr.ADCSRA_ADSC | avr.ADCSRA_ADATE |
		avr.ADCSRA_ADPS2 | avr.ADCSRA_ADPS1)
	return nil
}

// Latest implements analog.Converter. ADCL must be read first; it locks
// the result until ADCH is read.
func (internalADC) Latest() (uint16, error) {
	lo := avr.ADCL.Get()
	hi := avr.ADCH.Get()
	return uint16(hi)<<8 | uint16(lo), nil
}

func configureConverter(ledstrip.Writer) analog.Converter {
	return internalADC{}
}
