//go:build clock20mhz

package config

import "github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"

// ClockHz is the processor clock frequency.
const ClockHz = 20_000_000

// StripProfile is the pulse timing for ClockHz.
var StripProfile = ledstrip.Profile20MHz

// StripAsm sends one byte to the strip at ClockHz.
const StripAsm = ledstrip.AsmByte20MHz
