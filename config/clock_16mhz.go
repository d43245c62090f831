//go:build clock16mhz

package config

import "github.com/binkynet/BinkyHardware/BinkyLevelStrip/ledstrip"

// ClockHz is the processor clock frequency.
// Building with both clock16mhz and clock20mhz redeclares it.
const ClockHz = 16_000_000

// StripProfile is the pulse timing for ClockHz.
var StripProfile = ledstrip.Profile16MHz

// StripAsm sends one byte to the strip at ClockHz.
const StripAsm = ledstrip.AsmByte16MHz
