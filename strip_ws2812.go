//go:build tinygo && avr && ws2812driver

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/config"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
)

// ws2812Strip sends frames with the driver's assembly routine instead of
// the portable encoder.
type ws2812Strip struct {
	dev ws2812.Device
	buf [config.LEDCount]color.RGBA
}

func newStrip(pin machine.Pin) ledstrip.Writer {
	return &ws2812Strip{dev: ws2812.New(pin)}
}

// WriteColors implements ledstrip.Writer. The driver sends GRB.
func (s *ws2812Strip) WriteColors(colors []ledstrip.Color) error {
	if len(colors) > len(s.buf) {
		colors = colors[:len(s.buf)]
	}
	for i, c := range colors {
		s.buf[i] = c.ToRGBA()
	}
	if err := s.dev.WriteColors(s.buf[:len(colors)]); err != nil {
		return err
	}
	spinner{}.SpinMicros(ledstrip.ResetMicros)
	return nil
}
