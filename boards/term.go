package boards

import (
	"sync"

	"dscheirer.com/segmux/multiplex"
	"dscheirer.com/segmux/sevenseg"
	"github.com/jonboulle/clockwork"
	"github.com/nsf/termbox-go"
)

// TermBoard draws the display in a terminal. Each digit keeps the pattern
// it was last lit with, which is what the eye does with the real thing.
type TermBoard struct {
	sleeper
	segments sevenseg.Pattern
	latched  [multiplex.NumPositions]sevenseg.Pattern
	drawn    [multiplex.NumPositions]sevenseg.Pattern
	quit     chan struct{}
	once     sync.Once
	running  bool
}

func NewTermBoard(clock clockwork.Clock) *TermBoard {
	return &TermBoard{
		sleeper: sleeper{clock: clock},
		quit:    make(chan struct{}),
	}
}

// Quit is closed when ctrl-c or q is pressed in the terminal.
func (tb *TermBoard) Quit() <-chan struct{} {
	return tb.quit
}

func (tb *TermBoard) Init() error {
	if err := termbox.Init(); err != nil {
		return err
	}
	termbox.SetInputMode(termbox.InputEsc)
	tb.running = true
	go tb.pollKeys()
	tb.draw()
	return nil
}

func (tb *TermBoard) pollKeys() {
	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			if ev.Key == termbox.KeyCtrlC || ev.Ch == 'q' {
				tb.once.Do(func() { close(tb.quit) })
				return
			}
		case termbox.EventInterrupt, termbox.EventError:
			return
		}
	}
}

func (tb *TermBoard) SetSegmentOutputs(p sevenseg.Pattern) {
	tb.segments = p
}

func (tb *TermBoard) EnableDigitPosition(pos multiplex.Position) {
	if !pos.Valid() {
		return
	}
	tb.latched[pos] = tb.segments
}

// DisableDigitPosition redraws once per pass, after the last digit.
func (tb *TermBoard) DisableDigitPosition(pos multiplex.Position) {
	if pos != multiplex.Pos3 || tb.latched == tb.drawn {
		return
	}
	tb.draw()
}

func (tb *TermBoard) draw() {
	tb.drawn = tb.latched
	if !tb.running {
		return
	}
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for y, row := range renderRows(tb.drawn) {
		for x, ch := range row {
			termbox.SetCell(x+1, y+1, ch, termbox.ColorRed, termbox.ColorDefault)
		}
	}
	termbox.Flush()
}

func (tb *TermBoard) Close() error {
	if !tb.running {
		return nil
	}
	tb.running = false
	termbox.Interrupt()
	termbox.Close()
	return nil
}

// renderRows lays the digits out left to right, most significant first,
// with a space between each
func renderRows(digits [multiplex.NumPositions]sevenseg.Pattern) [5]string {
	var rows [5]string
	for i := multiplex.NumPositions - 1; i >= 0; i-- {
		r := digits[i].Rows()
		for y := range rows {
			rows[y] += r[y]
			if i > 0 {
				rows[y] += " "
			}
		}
	}
	return rows
}
