//go:build tinygo && avr

package main

import (
	"device"
	"time"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/config"
)

// spinner busy-waits on no-ops. The loop compiles to a decrement and a
// branch around each nop, so one iteration is about 4 cycles.
type spinner struct{}

const cyclesPerSpin = 4

func (spinner) SpinMicros(us uint16) {
	n := config.StripProfile.CyclesPerMicro() / cyclesPerSpin
	for ; us > 0; us-- {
		for i := n; i > 0; i-- {
			device.Asm("nop")
		}
	}
}

// delay busy-waits for d. Timer1 keeps ticking meanwhile.
func delay(d time.Duration) {
	for ms := d / time.Millisecond; ms > 0; ms-- {
		spinner{}.SpinMicros(1000)
	}
	spinner{}.SpinMicros(uint16(d % time.Millisecond / time.Microsecond))
}
