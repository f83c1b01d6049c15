// Package multiplex time-shares the segment lines of a 4-digit display.
//
// Only one digit is lit at a time. Refresh walks the positions, least
// significant first, and holds each one for the settle time; calling it in
// a tight loop makes all four digits appear lit at once.
package multiplex

import (
	"time"

	"dscheirer.com/segmux/sevenseg"
)

// Position is a physical digit slot, Pos0 being the units digit.
type Position int

const (
	Pos0 Position = iota
	Pos1
	Pos2
	Pos3
)

// NumPositions is the number of digit select lines.
const NumPositions = 4

// DefaultSettle is the per digit hold time the clock firmware shipped with.
const DefaultSettle = 25 * time.Millisecond

// Hardware is what Refresh needs from the board. Writes are assumed to
// take effect; there is nothing to read back.
type Hardware interface {
	// SetSegmentOutputs drives all seven segment lines to p.
	SetSegmentOutputs(p sevenseg.Pattern)
	EnableDigitPosition(pos Position)
	DisableDigitPosition(pos Position)
	// Sleep blocks for at least d.
	Sleep(d time.Duration)
}

// Decompose splits value into decimal digits, index 0 being the units.
// Anything past the fourth digit is dropped, so 12345 gives [5 4 3 2].
func Decompose(value uint64) [NumPositions]sevenseg.Digit {
	var digits [NumPositions]sevenseg.Digit
	for i := range digits {
		digits[i] = sevenseg.Digit(value % 10)
		value /= 10
	}
	return digits
}

// Recompose is the inverse of Decompose for values below 10000.
func Recompose(digits [NumPositions]sevenseg.Digit) uint64 {
	var value uint64
	for i := NumPositions - 1; i >= 0; i-- {
		value = value*10 + uint64(digits[i])
	}
	return value
}

// Multiplexer drives one display through its hardware.
type Multiplexer struct {
	hw Hardware
}

// New returns a Multiplexer writing to hw.
func New(hw Hardware) *Multiplexer {
	return &Multiplexer{hw: hw}
}

// Refresh shows every position of value once, settle apiece, and returns
// with all positions disabled. It always runs to completion.
func (m *Multiplexer) Refresh(value uint64, settle time.Duration) {
	digits := Decompose(value)
	for i, d := range digits {
		pos := Position(i)
		m.hw.SetSegmentOutputs(sevenseg.Encode(d))
		m.hw.EnableDigitPosition(pos)
		m.hw.Sleep(settle)
		// must be off before the next position is enabled or the two ghost
		m.hw.DisableDigitPosition(pos)
	}
}

// Blank turns off every select line and segment.
func (m *Multiplexer) Blank() {
	for pos := Pos0; pos <= Pos3; pos++ {
		m.hw.DisableDigitPosition(pos)
	}
	m.hw.SetSegmentOutputs(sevenseg.Pattern{})
}

// Valid reports whether pos names a wired digit.
func (pos Position) Valid() bool {
	return pos >= Pos0 && pos <= Pos3
}
