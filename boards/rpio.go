package boards

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"dscheirer.com/segmux/multiplex"
	"dscheirer.com/segmux/sevenseg"
	"github.com/jonboulle/clockwork"
	"github.com/stianeikeland/go-rpio"
)

// RpioBoard drives the display straight off the Pi's GPIO registers.
type RpioBoard struct {
	sleeper
	pins   Pins
	segs   [sevenseg.NumSegments]rpio.Pin
	digits [multiplex.NumPositions]rpio.Pin
	open   bool
}

// parseBCM takes "GPIO17", "BCM17" or "17"
func parseBCM(name string) (rpio.Pin, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "GPIO")
	n = strings.TrimPrefix(n, "BCM")
	num, err := strconv.Atoi(n)
	if err != nil {
		return 0, fmt.Errorf("bad pin name %q", name)
	}
	// the BCM2835 has 54 lines
	if num < 0 || num > 53 {
		return 0, fmt.Errorf("pin %q out of range", name)
	}
	return rpio.Pin(num), nil
}

func NewRpioBoard(pins Pins, clock clockwork.Clock) (*RpioBoard, error) {
	rb := &RpioBoard{sleeper: sleeper{clock: clock}, pins: pins}
	var err error
	for i, name := range pins.Segments {
		if rb.segs[i], err = parseBCM(name); err != nil {
			return nil, fmt.Errorf("segment %s: %w", sevenseg.Segment(i), err)
		}
	}
	for i, name := range pins.Digits {
		if rb.digits[i], err = parseBCM(name); err != nil {
			return nil, fmt.Errorf("digit %d: %w", i, err)
		}
	}
	return rb, nil
}

func write(pin rpio.Pin, high bool) {
	if high {
		pin.High()
	} else {
		pin.Low()
	}
}

func (rb *RpioBoard) Init() error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("rpio open: %w", err)
	}
	rb.open = true
	for _, pin := range rb.segs {
		pin.Output()
		pin.Low()
	}
	for _, pin := range rb.digits {
		pin.Output()
		write(pin, rb.pins.digitLevel(false))
	}
	log.Printf("rpio: segments %v digits %v", rb.segs, rb.digits)
	return nil
}

func (rb *RpioBoard) SetSegmentOutputs(p sevenseg.Pattern) {
	for i, on := range p {
		write(rb.segs[i], on)
	}
}

func (rb *RpioBoard) EnableDigitPosition(pos multiplex.Position) {
	if !pos.Valid() {
		return
	}
	write(rb.digits[pos], rb.pins.digitLevel(true))
}

func (rb *RpioBoard) DisableDigitPosition(pos multiplex.Position) {
	if !pos.Valid() {
		return
	}
	write(rb.digits[pos], rb.pins.digitLevel(false))
}

func (rb *RpioBoard) Close() error {
	if !rb.open {
		return nil
	}
	for pos := range rb.digits {
		rb.DisableDigitPosition(multiplex.Position(pos))
	}
	rb.SetSegmentOutputs(sevenseg.Pattern{})
	rb.open = false
	return rpio.Close()
}
