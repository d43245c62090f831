//go:build tinygo && avr

package main

import (
	"context"
	"machine"
	"time"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/analog"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/config"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/control"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/input"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/timer"
)

var (
	// Color scheme of the first LED during bring-up
	colorBoot        = ledstrip.Color{R: 255, G: 165, B: 0}
	colorConfigError = ledstrip.Color{R: 96, G: 0, B: 96}
	colorNoDevice    = ledstrip.Color{R: 245, G: 0, B: 0}
)

var (
	StripPin = machine.PD0
	ButtonA  = machine.PB0 // raise threshold
	ButtonB  = machine.PB1 // lower threshold
)

// scheduler is ticked by the Timer1 compare interrupt.
var scheduler = timer.New(timer1{}, config.TicksPerMs)

func main() {
	// Configure buttons
	for _, p := range []machine.Pin{ButtonA, ButtonB} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	// Configure strip line, driving low
	StripPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	StripPin.Low()
	strip := newStrip(StripPin)
	showStatus(strip, colorBoot)

	port := configureIndicatorPort(strip)
	conv := configureConverter(strip)

	hw := control.Hardware{
		Strip:     strip,
		Port:      port,
		A:         input.NewButton(ButtonA, input.Config{ActiveLow: true, Samples: config.InputSamples}),
		B:         input.NewButton(ButtonB, input.Config{ActiveLow: true, Samples: config.InputSamples}),
		Sampler:   analog.NewSampler(conv),
		Scheduler: scheduler,
		Delay:     delay,
	}
	if peaks, err := analog.NewPeakMonitor(analog.DefaultPeakConfig); err == nil {
		hw.Peaks = peaks
	}
	loop, err := control.New(hw, control.DefaultConfig(), nil)
	if err != nil {
		println("control.New failed: ", err.Error())
		halt(strip, colorConfigError)
	}
	for {
		if err := loop.Run(context.Background()); err != nil {
			println("control loop failed: ", err.Error())
			showStatus(strip, colorNoDevice)
			delay(time.Second)
		}
	}
}

// showStatus lights the first LED only.
func showStatus(strip ledstrip.Writer, c ledstrip.Color) {
	strip.WriteColors([]ledstrip.Color{c})
}

// halt shows c forever.
func halt(strip ledstrip.Writer, c ledstrip.Color) {
	showStatus(strip, c)
	for {
		delay(time.Second)
	}
}
