package boards

import (
	"fmt"
	"log"

	"dscheirer.com/segmux/multiplex"
	"dscheirer.com/segmux/sevenseg"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// HT16K33 commands
const (
	htOscOn      = 0x21
	htOscOff     = 0x20
	htDisplayOn  = 0x81
	htDisplayOff = 0x80
	htBrightMax  = 0xEF
)

// DefaultBackpackAddr is the backpack with no address jumpers bridged.
const DefaultBackpackAddr = 0x70

// BackpackBoard puts the display on an HT16K33 I2C backpack. The chip
// does its own scanning, so enabling a position just loads that digit's
// RAM with whatever is on the segment lines, and disabling is a no-op.
type BackpackBoard struct {
	sleeper
	dev      *i2c.Dev
	bus      i2c.BusCloser
	segments sevenseg.Pattern
	// what the chip has now, so unchanged digits aren't rewritten
	current [multiplex.NumPositions]byte
	loaded  [multiplex.NumPositions]bool
}

func NewBackpackBoard(bus i2c.Bus, addr uint16, clock clockwork.Clock) *BackpackBoard {
	return &BackpackBoard{
		sleeper: sleeper{clock: clock},
		dev:     &i2c.Dev{Bus: bus, Addr: addr},
	}
}

// OpenBackpack opens the named I2C bus, "" being the first one found.
func OpenBackpack(busName string, addr uint16, clock clockwork.Clock) (*BackpackBoard, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("i2c bus %q: %w", busName, err)
	}
	bb := NewBackpackBoard(bus, addr, clock)
	bb.bus = bus
	return bb, nil
}

// digitAddr is the display RAM address of pos. The backpack's digits run
// left to right with the colon in the middle slot, and pos 0 is rightmost.
func digitAddr(pos multiplex.Position) byte {
	slot := byte(multiplex.NumPositions-1) - byte(pos)
	if slot > 1 {
		// skip the colon
		slot++
	}
	return slot * 2
}

func (bb *BackpackBoard) command(c byte) error {
	_, err := bb.dev.Write([]byte{c})
	return err
}

func (bb *BackpackBoard) Init() error {
	for _, c := range []byte{htOscOn, htBrightMax, htDisplayOn} {
		if err := bb.command(c); err != nil {
			return fmt.Errorf("backpack command 0x%02x: %w", c, err)
		}
	}
	// clear the whole RAM, colon included
	if _, err := bb.dev.Write(make([]byte, 1+10)); err != nil {
		return fmt.Errorf("backpack clear: %w", err)
	}
	bb.current = [multiplex.NumPositions]byte{}
	bb.loaded = [multiplex.NumPositions]bool{true, true, true, true}
	return nil
}

func (bb *BackpackBoard) SetSegmentOutputs(p sevenseg.Pattern) {
	bb.segments = p
}

func (bb *BackpackBoard) EnableDigitPosition(pos multiplex.Position) {
	if !pos.Valid() {
		return
	}
	mask := bb.segments.Mask()
	if bb.loaded[pos] && bb.current[pos] == mask {
		return
	}
	if _, err := bb.dev.Write([]byte{digitAddr(pos), mask}); err != nil {
		log.Printf("backpack: digit %d: %v", pos, err)
		bb.loaded[pos] = false
		return
	}
	bb.current[pos] = mask
	bb.loaded[pos] = true
}

func (bb *BackpackBoard) DisableDigitPosition(pos multiplex.Position) {}

func (bb *BackpackBoard) Close() error {
	var first error
	for _, c := range []byte{htDisplayOff, htOscOff} {
		if err := bb.command(c); err != nil {
			log.Printf("backpack: command 0x%02x: %v", c, err)
			if first == nil {
				first = fmt.Errorf("backpack command 0x%02x: %w", c, err)
			}
		}
	}
	if bb.bus != nil {
		if err := bb.bus.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
