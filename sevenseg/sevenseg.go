// Package sevenseg maps decimal digits to the segments of a 7-segment
// digit. It does no I/O: the result is a value the caller writes to
// whatever drives the segment lines.
package sevenseg

import "strings"

// Segment names one of the seven bars of a digit.
//
//	 -A-
//	F   B
//	 -G-
//	E   C
//	 -D-
type Segment int

const (
	SegA Segment = iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG
)

// NumSegments is the number of segment lines shared by all digits.
const NumSegments = 7

var segmentNames = [NumSegments]string{"A", "B", "C", "D", "E", "F", "G"}

func (s Segment) String() string {
	if s < SegA || s > SegG {
		return "?"
	}
	return segmentNames[s]
}

// Digit is a decimal digit, 0 to 9. Anything else renders as Blank.
type Digit int

// Blank is the sentinel for "nothing to show".
const Blank Digit = -1

// Valid reports whether d has a glyph.
func (d Digit) Valid() bool {
	return d >= 0 && d <= 9
}

// Pattern is the on/off state of each segment, indexed by Segment.
type Pattern [NumSegments]bool

// On reports whether segment s is lit.
func (p Pattern) On(s Segment) bool {
	if s < SegA || s > SegG {
		return false
	}
	return p[s]
}

// Mask packs the pattern into the usual 7-seg byte, A in bit 0 through G in bit 6.
func (p Pattern) Mask() byte {
	var m byte
	for i, on := range p {
		if on {
			m |= 1 << uint(i)
		}
	}
	return m
}

// FromMask is the inverse of Mask. Bit 7 (decimal point) is ignored.
func FromMask(m byte) Pattern {
	var p Pattern
	for i := range p {
		p[i] = m&(1<<uint(i)) != 0
	}
	return p
}

// font is the glyph table, one row per digit, columns A..G
var font = [10]Pattern{
	{true, true, true, true, true, true, false},     // 0
	{false, true, true, false, false, false, false}, // 1
	{true, true, false, true, true, false, true},    // 2
	{true, true, true, true, false, false, true},    // 3
	{false, true, true, false, false, true, true},   // 4
	{true, false, true, true, false, true, true},    // 5
	{true, false, true, true, true, true, true},     // 6
	{true, true, true, false, false, false, false},  // 7
	{true, true, true, true, true, true, true},      // 8
	{true, true, true, true, false, true, true},     // 9
}

// Encode returns the segments to light for d. Out of range digits give the
// all-off pattern rather than an error.
func Encode(d Digit) Pattern {
	if !d.Valid() {
		return Pattern{}
	}
	return font[d]
}

// Rows draws the pattern as five rows of three characters.
func (p Pattern) Rows() [5]string {
	bar := func(s Segment) string {
		if p[s] {
			return " - "
		}
		return "   "
	}
	sides := func(l, r Segment) string {
		var b strings.Builder
		if p[l] {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
		b.WriteByte(' ')
		if p[r] {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
		return b.String()
	}
	return [5]string{
		bar(SegA),
		sides(SegF, SegB),
		bar(SegG),
		sides(SegE, SegC),
		bar(SegD),
	}
}

// String lists the lit segments, e.g. "ABCDEF" for 0, "-" when blank.
func (p Pattern) String() string {
	var b strings.Builder
	for i, on := range p {
		if on {
			b.WriteString(segmentNames[i])
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
