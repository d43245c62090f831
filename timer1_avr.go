//go:build tinygo && avr

package main

import (
	"device/avr"
	"runtime/interrupt"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/config"
)

func init() {
	interrupt.New(avr.IRQ_TIMER1_COMPA, handleTimer1)
}

// handleTimer1 runs on every compare match, once per millisecond.
func handleTimer1(interrupt.Interrupt) {
	scheduler.Tick()
}

// timer1 is Timer1 in CTC mode with a 1 ms period.
type timer1 struct{}

// Enable implements timer.Source.
func (timer1) Enable() {
	state := interrupt.Disable()
	avr.TCCR1A.Set(0)
	avr.TCNT1H.Set(0)
	avr.TCNT1L.Set(0)
	// 16-bit registers are written high byte first.
	avr.OCR1AH.Set(uint8(config.TimerCompare >> 8))
	avr.OCR1AL.Set(uint8(config.TimerCompare & 0xff))
	avr.TIMSK1.SetBits(avr.TIMSK1_OCIE1A)
	// CTC on OCR1A, prescaler 8
	avr.TCCR1B.Set(avr.TCCR1B_WGM12 | avr.TCCR1B_CS11)
	interrupt.Restore(state)
}

// Disable implements timer.Source.
func (timer1) Disable() {
	avr.TCCR1B.Set(0)
	avr.TIMSK1.ClearBits(avr.TIMSK1_OCIE1A)
}
