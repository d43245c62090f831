// Package config holds the compile-time configuration of the firmware.
//
// The processor clock is selected with build tags (clock16mhz, clock20mhz,
// default 8 MHz). The constant checks at the bottom of this file make an
// invalid threshold range fail to compile.
package config

import (
	"time"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/tuning"
)

const (
	// Number of LEDs on the strip
	LEDCount = 60
	// Wire order of the strip's color channels
	ColorOrder = ledstrip.OrderGRB

	// Threshold range
	ThresholdDefault = 400
	ThresholdMin     = 400
	ThresholdMax     = 470
	ThresholdStep    = 10

	// Timer1 runs at 1 kHz; one tick per millisecond.
	TicksPerMs = 1
	// Timer1 prescaler and compare value for a 1 ms CTC period
	TimerPrescaler = 8
	TimerCompare   = ClockHz/TimerPrescaler/1000 - 1

	// Scheduler period between two analog samples
	SamplePeriodMs = 100
	// Busy-wait between two animation frames
	FrameDelay = 20 * time.Millisecond
	// Number of sample periods an animation burst lasts
	BurstLength = 50

	// Consecutive equal reads before a button changes state
	InputSamples = 2
)

// Bounds returns the threshold bounds for the tuning machine.
func Bounds() tuning.Bounds {
	return tuning.Bounds{
		Default: ThresholdDefault,
		Min:     ThresholdMin,
		Max:     ThresholdMax,
		Step:    ThresholdStep,
	}
}

// Compile-time checks. Each constant overflows (and fails the build) when
// its condition does not hold.
const (
	_ uint   = ThresholdStep - 1                                           // step > 0
	_ uint   = ThresholdMax - ThresholdMin                                 // min <= max
	_ uint   = ThresholdDefault - ThresholdMin                             // default >= min
	_ uint   = ThresholdMin - ThresholdDefault                             // default <= min
	_ uint   = tuning.MaxLevel - (ThresholdMax-ThresholdMin)/ThresholdStep // at most 7 levels
	_ uint   = 0 - (ThresholdMax-ThresholdMin)%ThresholdStep               // whole steps only
	_ uint16 = TimerCompare                                                // fits OCR1A
)
