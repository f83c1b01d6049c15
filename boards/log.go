package boards

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"dscheirer.com/segmux/multiplex"
	"dscheirer.com/segmux/sevenseg"
	"github.com/jonboulle/clockwork"
)

// LogBoard pretends to be the display. It tracks how many digits were ever
// lit together, and keeps every call in an audit trail when Record is on.
type LogBoard struct {
	sleeper
	mu          sync.Mutex
	segments    sevenseg.Pattern
	enabled     [multiplex.NumPositions]bool
	shown       [multiplex.NumPositions]sevenseg.Pattern
	maxEnabled  int
	audit       []string
	debugDump   bool
	recording   bool
	initialized bool
}

func NewLogBoard(clock clockwork.Clock) *LogBoard {
	return &LogBoard{sleeper: sleeper{clock: clock}}
}

// DebugDump turns on drawing each digit to the log as it is lit.
func (lb *LogBoard) DebugDump(on bool) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.debugDump = on
}

// Record turns the audit trail on or off. It grows with every call, so
// leave it off on a board that refreshes forever.
func (lb *LogBoard) Record(on bool) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.recording = on
	if !on {
		lb.audit = nil
	}
}

func (lb *LogBoard) record(format string, args ...interface{}) {
	if !lb.recording {
		return
	}
	lb.audit = append(lb.audit, fmt.Sprintf(format, args...))
}

func (lb *LogBoard) countEnabled() int {
	n := 0
	for _, on := range lb.enabled {
		if on {
			n++
		}
	}
	return n
}

func (lb *LogBoard) Init() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.segments = sevenseg.Pattern{}
	lb.enabled = [multiplex.NumPositions]bool{}
	lb.shown = [multiplex.NumPositions]sevenseg.Pattern{}
	lb.maxEnabled = 0
	lb.audit = nil
	lb.initialized = true
	lb.record("init")
	return nil
}

func (lb *LogBoard) SetSegmentOutputs(p sevenseg.Pattern) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.segments = p
	lb.record("seg %s", p)
}

func (lb *LogBoard) EnableDigitPosition(pos multiplex.Position) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if !pos.Valid() {
		lb.record("bad pos %d", pos)
		return
	}
	if n := lb.countEnabled(); n > 0 && !lb.enabled[pos] {
		log.Printf("log board: pos %d enabled with %d other digit(s) lit", pos, n)
	}
	lb.enabled[pos] = true
	lb.shown[pos] = lb.segments
	if n := lb.countEnabled(); n > lb.maxEnabled {
		lb.maxEnabled = n
	}
	lb.record("on %d", pos)
	if lb.debugDump {
		lb.dump(pos)
	}
}

func (lb *LogBoard) DisableDigitPosition(pos multiplex.Position) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if !pos.Valid() {
		lb.record("bad pos %d", pos)
		return
	}
	lb.enabled[pos] = false
	lb.record("off %d", pos)
}

func (lb *LogBoard) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.enabled = [multiplex.NumPositions]bool{}
	lb.segments = sevenseg.Pattern{}
	lb.initialized = false
	lb.record("close")
	return nil
}

func (lb *LogBoard) dump(pos multiplex.Position) {
	rows := lb.segments.Rows()
	log.Printf("pos %d\n%s\n", pos, strings.Join(rows[:], "\n"))
}

// Audit returns a copy of the call trail.
func (lb *LogBoard) Audit() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return append([]string(nil), lb.audit...)
}

// Shown is the pattern each position last lit with.
func (lb *LogBoard) Shown() [multiplex.NumPositions]sevenseg.Pattern {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.shown
}

// Enabled lists the positions lit right now.
func (lb *LogBoard) Enabled() []multiplex.Position {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	var ret []multiplex.Position
	for i, on := range lb.enabled {
		if on {
			ret = append(ret, multiplex.Position(i))
		}
	}
	return ret
}

// MaxEnabled is the most positions that were ever lit at once.
func (lb *LogBoard) MaxEnabled() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.maxEnabled
}

func (lb *LogBoard) Segments() sevenseg.Pattern {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.segments
}

func (lb *LogBoard) Initialized() bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.initialized
}
