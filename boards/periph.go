package boards

import (
	"fmt"
	"log"

	"dscheirer.com/segmux/multiplex"
	"dscheirer.com/segmux/sevenseg"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphBoard drives the display through periph.io pins, so it works on
// anything periph has a host driver for.
type PeriphBoard struct {
	sleeper
	segs      [sevenseg.NumSegments]gpio.PinOut
	digits    [multiplex.NumPositions]gpio.PinOut
	activeLow bool
}

// NewPeriphBoard wraps pins that are already looked up.
func NewPeriphBoard(segs [sevenseg.NumSegments]gpio.PinOut, digits [multiplex.NumPositions]gpio.PinOut, activeLow bool, clock clockwork.Clock) *PeriphBoard {
	return &PeriphBoard{
		sleeper:   sleeper{clock: clock},
		segs:      segs,
		digits:    digits,
		activeLow: activeLow,
	}
}

// OpenPeriph initializes the periph host drivers and finds pins by name.
func OpenPeriph(pins Pins, clock clockwork.Clock) (*PeriphBoard, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	var segs [sevenseg.NumSegments]gpio.PinOut
	var digits [multiplex.NumPositions]gpio.PinOut
	for i, name := range pins.Segments {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("segment %s: no pin %q", sevenseg.Segment(i), name)
		}
		segs[i] = p
	}
	for i, name := range pins.Digits {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("digit %d: no pin %q", i, name)
		}
		digits[i] = p
	}
	return NewPeriphBoard(segs, digits, pins.DigitActiveLow, clock), nil
}

func level(high bool) gpio.Level {
	if high {
		return gpio.High
	}
	return gpio.Low
}

// out logs a failed write, there is nobody upstream to tell
func out(p gpio.PinOut, l gpio.Level) error {
	err := p.Out(l)
	if err != nil {
		log.Printf("periph: %s: %v", p, err)
	}
	return err
}

func (pb *PeriphBoard) digitLevel(asserted bool) gpio.Level {
	return level(asserted != pb.activeLow)
}

func (pb *PeriphBoard) Init() error {
	var first error
	for _, p := range pb.segs {
		if err := out(p, gpio.Low); err != nil && first == nil {
			first = err
		}
	}
	for _, p := range pb.digits {
		if err := out(p, pb.digitLevel(false)); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (pb *PeriphBoard) SetSegmentOutputs(p sevenseg.Pattern) {
	for i, on := range p {
		out(pb.segs[i], level(on))
	}
}

func (pb *PeriphBoard) EnableDigitPosition(pos multiplex.Position) {
	if !pos.Valid() {
		return
	}
	out(pb.digits[pos], pb.digitLevel(true))
}

func (pb *PeriphBoard) DisableDigitPosition(pos multiplex.Position) {
	if !pos.Valid() {
		return
	}
	out(pb.digits[pos], pb.digitLevel(false))
}

func (pb *PeriphBoard) Close() error {
	for pos := range pb.digits {
		pb.DisableDigitPosition(multiplex.Position(pos))
	}
	pb.SetSegmentOutputs(sevenseg.Pattern{})
	return nil
}
