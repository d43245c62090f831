//go:build tinygo && avr && pcf8574

package main

import (
	"machine"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/devices/pcf8574"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/indicator"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
)

func configureIndicatorPort(strip ledstrip.Writer) indicator.Port {
	if dev := probePCF8574Device(strip); dev != nil {
		return dev
	}
	return discardPort{}
}

// Try to detect a PCF8574. Returns nil when none is found.
func probePCF8574Device(strip ledstrip.Writer) *pcf8574.Device {
	println("Configure i2c0...")
	if err := machine.I2C0.Configure(machine.I2CConfig{}); err != nil {
		showStatus(strip, colorConfigError)
		return nil
	}
	println("Probing PCF8574 devices")
	for _, i2cAddress := range []uint8{0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27} {
		dev := pcf8574.New(machine.I2C0, i2cAddress)
		if err := dev.Reset(); err == nil {
			println("Found PCF8574 at address: ", dev.Address())
			return dev
		}
	}
	println("No PCF8574 found, indicator disabled")
	showStatus(strip, colorNoDevice)
	return nil
}

// discardPort drops indicator writes.
type discardPort struct{}

func (discardPort) WriteBits(uint8) error { return nil }
