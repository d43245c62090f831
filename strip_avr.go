//go:build tinygo && avr && !ws2812driver

package main

import (
	"device"
	"device/avr"
	"machine"
	"runtime/interrupt"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/config"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
)

// asmStrip sends frames with the byte routine for the configured clock.
// The routine drives PD0 directly, so pin must be PD0.
type asmStrip struct{}

func newStrip(pin machine.Pin) ledstrip.Writer {
	if pin != machine.PD0 {
		panic("strip must be on PD0")
	}
	return asmStrip{}
}

// WriteColors implements ledstrip.Writer. Interrupts are disabled while the
// bits go out, then the line is held low for ResetMicros.
func (asmStrip) WriteColors(colors []ledstrip.Color) error {
	avr.PORTD.ClearBits(1 << 0)

	state := interrupt.Disable()
	for _, c := range colors {
		ch := config.ColorOrder.Bytes(c)
		sendByte(ch[0])
		sendByte(ch[1])
		sendByte(ch[2])
	}
	interrupt.Restore(state)

	spinner{}.SpinMicros(ledstrip.ResetMicros)
	return nil
}

//go:inline
func sendByte(b uint8) {
	device.AsmFull(config.StripAsm, map[string]interface{}{
		"value": b,
	})
}
