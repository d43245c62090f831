package pcf8574

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// Device implements access to an PCF8574 device.
// Its quasi-bidirectional outputs sink current when low, so LEDs wired to
// VCC light on a 0 bit.
type Device struct {
	i2c        drivers.I2C
	i2cAddress uint8
}

// New initializes a new device attached to given I2C bus.
func New(i2c drivers.I2C, i2cAddress uint8) *Device {
	return &Device{
		i2c:        i2c,
		i2cAddress: i2cAddress,
	}
}

// Address returns the I2C address of the device.
func (dev *Device) Address() uint8 { return dev.i2cAddress }

// Reset the device to all outputs high (inactive)
func (dev *Device) Reset() error {
	if err := dev.WriteBits(0xFF); err != nil {
		return fmt.Errorf("WriteBits failed: %w", err)
	}
	return nil
}

// Write 8-bits out binary output
func (dev *Device) WriteBits(value uint8) error {
	w := [1]uint8{value}
	if err := dev.i2c.Tx(uint16(dev.i2cAddress), w[:], nil); err != nil {
		return err
	}
	return nil
}
