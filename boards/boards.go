// Package boards holds the things that can sit behind multiplex.Hardware:
// real GPIO through go-rpio or periph, an HT16K33 I2C backpack, a terminal
// simulator, and a logging fake for tests and bench runs.
package boards

import (
	"fmt"
	"time"

	"dscheirer.com/segmux/multiplex"
	"dscheirer.com/segmux/sevenseg"
	"github.com/jonboulle/clockwork"
)

// Board is a display driver with its one-time setup and teardown.
type Board interface {
	multiplex.Hardware
	// Init sets the pin directions and turns everything off. Call once
	// before the first refresh.
	Init() error
	// Close turns everything off and releases the hardware.
	Close() error
}

// Pins names the GPIO lines the display is wired to.
type Pins struct {
	Segments [sevenseg.NumSegments]string // A..G
	Digits   [multiplex.NumPositions]string
	// DigitActiveLow means a select line is asserted by pulling it low
	// (cathode wired straight to the pin). Otherwise high asserts, which
	// is what a driver transistor wants.
	DigitActiveLow bool
}

// DefaultPins is the wiring on the Pi header the clock was built with.
var DefaultPins = Pins{
	Segments: [sevenseg.NumSegments]string{"GPIO17", "GPIO27", "GPIO22", "GPIO5", "GPIO6", "GPIO13", "GPIO19"},
	Digits:   [multiplex.NumPositions]string{"GPIO26", "GPIO21", "GPIO20", "GPIO16"},
}

// PinsFromLists builds Pins from config lists, checking the counts.
func PinsFromLists(segments []string, digits []string, activeLow bool) (Pins, error) {
	var p Pins
	if len(segments) != sevenseg.NumSegments {
		return p, fmt.Errorf("need %d segment pins, got %d", sevenseg.NumSegments, len(segments))
	}
	if len(digits) != multiplex.NumPositions {
		return p, fmt.Errorf("need %d digit pins, got %d", multiplex.NumPositions, len(digits))
	}
	copy(p.Segments[:], segments)
	copy(p.Digits[:], digits)
	p.DigitActiveLow = activeLow
	return p, nil
}

// digitLevel is the line level for a select line, true being high
func (p Pins) digitLevel(asserted bool) bool {
	return asserted != p.DigitActiveLow
}

// Config picks a board and says how it is wired.
type Config struct {
	Kind string // log, term, rpio, periph or backpack
	Pins Pins
	// backpack only
	I2CBus  string
	I2CAddr uint16
	// log only
	DebugDump bool
}

// Open returns the board cfg names. The board is not initialized.
func Open(cfg Config, clock clockwork.Clock) (Board, error) {
	switch cfg.Kind {
	case "log":
		lb := NewLogBoard(clock)
		lb.DebugDump(cfg.DebugDump)
		return lb, nil
	case "term":
		return NewTermBoard(clock), nil
	case "rpio":
		return NewRpioBoard(cfg.Pins, clock)
	case "periph":
		return OpenPeriph(cfg.Pins, clock)
	case "backpack":
		return OpenBackpack(cfg.I2CBus, cfg.I2CAddr, clock)
	default:
		return nil, fmt.Errorf("unknown board %q", cfg.Kind)
	}
}

// sleeper gives a board its Sleep
type sleeper struct {
	clock clockwork.Clock
}

func (s sleeper) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	s.clock.Sleep(d)
}
