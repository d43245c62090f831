//go:build tinygo && avr && ads1115

package main

import (
	"errors"
	"fmt"
	"machine"
	"time"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/analog"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/devices/ads1115"
	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"
)

// Number of failed reads after which the device is reset
const maxADS1115Failures = 3

var errNoADS1115 = errors.New("no ADS1115 found")

func configureConverter(strip ledstrip.Writer) analog.Converter {
	return &adsConverter{dev: probeADS1115Device(strip)}
}

// Try to detect an ADS1115, trying again until one is found.
func probeADS1115Device(strip ledstrip.Writer) *ads1115.Device {
	for {
		println("Configure i2c0...")
		if err := machine.I2C0.Configure(machine.I2CConfig{}); err != nil {
			showStatus(strip, colorConfigError)
		} else {
			println("Probing ADS1115 devices")
			for _, i2cAddress := range []uint8{ads1115.I2CAddressGround, ads1115.I2CAddressVDD, ads1115.I2CAddressSDA, ads1115.I2CAddressSCL} {
				dev := ads1115.New(machine.I2C0, i2cAddress)
				if err := resetADS1115Device(dev); err == nil {
					println("Found ADS1115 at address: ", dev.Address())
					return dev
				}
			}
			println(errNoADS1115.Error())
			showStatus(strip, colorNoDevice)
		}
		// Wait until trying again
		delay(time.Second * 3)
		showStatus(strip, colorBoot)
	}
}

// Reset the given device to desired values.
func resetADS1115Device(dev *ads1115.Device) error {
	if err := dev.Reset(); err != nil {
		return fmt.Errorf("Reset failed: %w", err)
	}
	if err := dev.SetVoltageRangeMilliV(ads1115.ADS1115_RANGE_4096); err != nil {
		return fmt.Errorf("SetVoltageRangeMilliV failed: %w", err)
	}
	if err := dev.SetSingleChannel(0); err != nil {
		return fmt.Errorf("SetSingleChannel failed: %w", err)
	}
	return nil
}

// adsConverter resets the device after repeated read failures.
type adsConverter struct {
	dev      *ads1115.Device
	failures uint8
}

// StartFreeRunning implements analog.Converter.
func (c *adsConverter) StartFreeRunning() error {
	return c.dev.StartFreeRunning()
}

// Latest implements analog.Converter.
func (c *adsConverter) Latest() (uint16, error) {
	v, err := c.dev.Latest()
	if err == nil {
		c.failures = 0
		return v, nil
	}
	c.failures++
	if c.failures >= maxADS1115Failures {
		c.failures = 0
		if rerr := resetADS1115Device(c.dev); rerr != nil {
			println("Failed to reset ADS1115 device: ", rerr.Error())
		} else if rerr := c.dev.StartFreeRunning(); rerr != nil {
			println("Failed to restart ADS1115 device: ", rerr.Error())
		} else {
			println("Succesfully reset ADS1115 device")
		}
	}
	return 0, err
}
