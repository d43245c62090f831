//go:build !clock16mhz && !clock20mhz

package config

import "github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"

// ClockHz is the processor clock frequency.
const ClockHz = 8_000_000

// StripProfile is the pulse timing for ClockHz.
var StripProfile = ledstrip.Profile8MHz

// StripAsm sends one byte to the strip at ClockHz.
const StripAsm = ledstrip.AsmByte8MHz
