//go:build tinygo && avr && !pcf8574

package main

import (
	"device/avr"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/indicator"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
)

// portC drives the indicator LEDs on PORTC.
type portC struct{}

// WriteBits implements indicator.Port.
func (portC) WriteBits(v uint8) error {
	avr.PORTC.Set(v)
	return nil
}

func configureIndicatorPort(ledstrip.Writer) indicator.Port {
	avr.PORTC.Set(indicator.PatternIdle)
	avr.DDRC.Set(0xFF)
	return portC{}
}
