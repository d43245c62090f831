package ledstrip

// AVR routines that send one byte, most significant bit first, on PD0
// (PORTD is I/O address 0x0b). They take the byte in the {value} operand
// and shift it through r0, which inline assembly may clobber. Each bit
// follows the cycle model of its Profile and is padded so that bit slots
// are PeriodCycles long. The low time of the last bit is stretched by
// whatever the caller does before the next byte.
//
// Interrupts must be disabled while they run.
const (
	asmLoad  = "mov r0, {value}\n"
	asmShift = "lsl r0\n"
	asmHigh  = "sbi 0x0b, 0\n"
	asmZero  = "brcs .+2\ncbi 0x0b, 0\n" // zero-bit cutoff
	asmOne   = "brcc .+2\ncbi 0x0b, 0\n" // one-bit cutoff

	nop1 = "nop\n"
	nop2 = nop1 + nop1
	nop4 = nop2 + nop2
	nop5 = nop4 + nop1
	nop7 = nop4 + nop2 + nop1

	// stands in for the call and return of the cycle model
	asmPad = nop7

	asmBit8MHz  = asmShift + asmHigh + asmZero + nop2 + asmOne + asmPad
	asmBit16MHz = asmHigh + asmShift + nop2 + asmZero + nop5 + asmOne + asmPad
	asmBit20MHz = asmHigh + asmShift + nop4 + asmZero + nop7 + asmOne + asmPad

	AsmByte8MHz = asmLoad +
		asmBit8MHz + asmBit8MHz + asmBit8MHz + asmBit8MHz +
		asmBit8MHz + asmBit8MHz + asmBit8MHz + asmBit8MHz
	AsmByte16MHz = asmLoad +
		asmBit16MHz + asmBit16MHz + asmBit16MHz + asmBit16MHz +
		asmBit16MHz + asmBit16MHz + asmBit16MHz + asmBit16MHz
	AsmByte20MHz = asmLoad +
		asmBit20MHz + asmBit20MHz + asmBit20MHz + asmBit20MHz +
		asmBit20MHz + asmBit20MHz + asmBit20MHz + asmBit20MHz
)

// AsmByte returns the byte routine for the profile's clock, or "" if there
// is none.
func (p Profile) AsmByte() string {
	switch p.ClockHz {
	case Profile8MHz.ClockHz:
		return AsmByte8MHz
	case Profile16MHz.ClockHz:
		return AsmByte16MHz
	case Profile20MHz.ClockHz:
		return AsmByte20MHz
	}
	return ""
}
