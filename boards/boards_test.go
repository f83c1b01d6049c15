package boards

import (
	"testing"
	"time"

	"dscheirer.com/segmux/multiplex"
	"dscheirer.com/segmux/sevenseg"
	"github.com/jonboulle/clockwork"
	"gotest.tools/assert"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestPinsFromLists(t *testing.T) {
	segs := DefaultPins.Segments[:]
	digs := DefaultPins.Digits[:]

	p, err := PinsFromLists(segs, digs, true)
	assert.NilError(t, err)
	assert.Equal(t, p.Segments, DefaultPins.Segments)
	assert.Equal(t, p.Digits, DefaultPins.Digits)
	assert.Assert(t, p.DigitActiveLow)

	_, err = PinsFromLists(segs[:6], digs, false)
	assert.Error(t, err, "need 7 segment pins, got 6")
	_, err = PinsFromLists(segs, append(digs, "GPIO4"), false)
	assert.Error(t, err, "need 4 digit pins, got 5")
}

func TestDigitLevel(t *testing.T) {
	high := Pins{}
	assert.Equal(t, high.digitLevel(true), true)
	assert.Equal(t, high.digitLevel(false), false)
	low := Pins{DigitActiveLow: true}
	assert.Equal(t, low.digitLevel(true), false)
	assert.Equal(t, low.digitLevel(false), true)
}

func TestOpen(t *testing.T) {
	clock := clockwork.NewFakeClock()

	b, err := Open(Config{Kind: "log", Pins: DefaultPins}, clock)
	assert.NilError(t, err)
	_, ok := b.(*LogBoard)
	assert.Assert(t, ok)

	b, err = Open(Config{Kind: "term"}, clock)
	assert.NilError(t, err)
	_, ok = b.(*TermBoard)
	assert.Assert(t, ok)

	b, err = Open(Config{Kind: "rpio", Pins: DefaultPins}, clock)
	assert.NilError(t, err)
	_, ok = b.(*RpioBoard)
	assert.Assert(t, ok)

	_, err = Open(Config{Kind: "lcd"}, clock)
	assert.Error(t, err, `unknown board "lcd"`)
}

func TestSleep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	lb := NewLogBoard(clock)

	done := make(chan struct{})
	go func() {
		lb.Sleep(25 * time.Millisecond)
		close(done)
	}()
	clock.BlockUntil(1)
	clock.Advance(25 * time.Millisecond)
	<-done

	// non-positive durations don't touch the clock
	lb.Sleep(0)
	lb.Sleep(-time.Second)
}

func TestLogBoardAudit(t *testing.T) {
	lb := NewLogBoard(clockwork.NewFakeClock())
	lb.Record(true)
	assert.NilError(t, lb.Init())
	assert.Assert(t, lb.Initialized())

	lb.SetSegmentOutputs(sevenseg.Encode(1))
	lb.EnableDigitPosition(multiplex.Pos0)
	assert.DeepEqual(t, lb.Enabled(), []multiplex.Position{multiplex.Pos0})
	lb.DisableDigitPosition(multiplex.Pos0)
	lb.EnableDigitPosition(multiplex.Position(7))
	lb.DisableDigitPosition(multiplex.Position(-1))
	assert.NilError(t, lb.Close())

	assert.DeepEqual(t, lb.Audit(), []string{
		"init",
		"seg BC",
		"on 0",
		"off 0",
		"bad pos 7",
		"bad pos -1",
		"close",
	})
	assert.Equal(t, lb.Shown()[multiplex.Pos0], sevenseg.Encode(1))
	assert.Assert(t, !lb.Initialized())
	assert.Equal(t, len(lb.Enabled()), 0)
}

func TestLogBoardNoRecordByDefault(t *testing.T) {
	lb := NewLogBoard(clockwork.NewRealClock())
	assert.NilError(t, lb.Init())
	m := multiplex.New(lb)
	for i := 0; i < 10000; i++ {
		m.Refresh(12345, 0)
	}
	// the trail stays empty, the overlap count still works
	assert.Equal(t, len(lb.Audit()), 0)
	assert.Equal(t, lb.MaxEnabled(), 1)
	assert.Equal(t, lb.Shown()[multiplex.Pos0], sevenseg.Encode(5))

	// turning it off again drops what was kept
	lb.Record(true)
	m.Refresh(1, 0)
	assert.Equal(t, len(lb.Audit()), 4*3)
	lb.Record(false)
	assert.Equal(t, len(lb.Audit()), 0)
}

func TestLogBoardCountsOverlap(t *testing.T) {
	lb := NewLogBoard(clockwork.NewFakeClock())
	lb.Init()
	lb.EnableDigitPosition(multiplex.Pos0)
	lb.EnableDigitPosition(multiplex.Pos1)
	assert.Equal(t, lb.MaxEnabled(), 2)
}

// walk a whole refresh on the fake clock, checking at every hold that
// exactly the right digit is lit
func TestLogBoardRefresh(t *testing.T) {
	clock := clockwork.NewFakeClock()
	lb := NewLogBoard(clock)
	lb.DebugDump(true)
	assert.NilError(t, lb.Init())
	m := multiplex.New(lb)

	done := make(chan struct{})
	go func() {
		m.Refresh(2019, multiplex.DefaultSettle)
		close(done)
	}()

	want := []sevenseg.Digit{9, 1, 0, 2}
	for i, d := range want {
		clock.BlockUntil(1)
		assert.DeepEqual(t, lb.Enabled(), []multiplex.Position{multiplex.Position(i)})
		assert.Equal(t, lb.Segments(), sevenseg.Encode(d))
		clock.Advance(multiplex.DefaultSettle)
	}
	<-done

	assert.Equal(t, len(lb.Enabled()), 0)
	assert.Equal(t, lb.MaxEnabled(), 1)
	assert.Equal(t, lb.Shown(), [4]sevenseg.Pattern{
		sevenseg.Encode(9), sevenseg.Encode(1), sevenseg.Encode(0), sevenseg.Encode(2),
	})
}

func testPins() ([7]gpio.PinOut, [4]gpio.PinOut, [7]*gpiotest.Pin, [4]*gpiotest.Pin) {
	var segs [7]gpio.PinOut
	var digs [4]gpio.PinOut
	var segPins [7]*gpiotest.Pin
	var digPins [4]*gpiotest.Pin
	for i := range segs {
		segPins[i] = &gpiotest.Pin{N: "SEG" + sevenseg.Segment(i).String(), Num: i}
		segs[i] = segPins[i]
	}
	for i := range digs {
		digPins[i] = &gpiotest.Pin{N: "DIG", Num: 10 + i}
		digs[i] = digPins[i]
	}
	return segs, digs, segPins, digPins
}

func TestPeriphBoard(t *testing.T) {
	tests := []struct {
		name      string
		activeLow bool
		on, off   gpio.Level
	}{
		{"active high", false, gpio.High, gpio.Low},
		{"active low", true, gpio.Low, gpio.High},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs, digs, segPins, digPins := testPins()
			pb := NewPeriphBoard(segs, digs, tt.activeLow, clockwork.NewFakeClock())
			assert.NilError(t, pb.Init())
			for _, p := range digPins {
				assert.Equal(t, p.Read(), tt.off)
			}

			pb.SetSegmentOutputs(sevenseg.Encode(4))
			for i, p := range segPins {
				want := gpio.Low
				if sevenseg.Encode(4)[i] {
					want = gpio.High
				}
				assert.Equal(t, p.Read(), want, "segment %s", sevenseg.Segment(i))
			}

			pb.EnableDigitPosition(multiplex.Pos2)
			assert.Equal(t, digPins[2].Read(), tt.on)
			assert.Equal(t, digPins[1].Read(), tt.off)
			pb.DisableDigitPosition(multiplex.Pos2)
			assert.Equal(t, digPins[2].Read(), tt.off)

			// out of range is ignored
			pb.EnableDigitPosition(multiplex.Position(4))

			assert.NilError(t, pb.Close())
			for _, p := range segPins {
				assert.Equal(t, p.Read(), gpio.Low)
			}
			for _, p := range digPins {
				assert.Equal(t, p.Read(), tt.off)
			}
		})
	}
}

func TestParseBCM(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"GPIO17", 17, false},
		{"gpio4", 4, false},
		{"BCM27", 27, false},
		{"5", 5, false},
		{" GPIO6 ", 6, false},
		{"GPIO54", 0, true},
		{"-1", 0, true},
		{"P1_11", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBCM(tt.name)
			if tt.wantErr {
				assert.Assert(t, err != nil)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, int(got), tt.want)
		})
	}
}

func TestNewRpioBoard(t *testing.T) {
	rb, err := NewRpioBoard(DefaultPins, clockwork.NewFakeClock())
	assert.NilError(t, err)
	assert.Equal(t, int(rb.segs[0]), 17)
	assert.Equal(t, int(rb.digits[3]), 16)
	// never opened, nothing to release
	assert.NilError(t, rb.Close())

	bad := DefaultPins
	bad.Digits[1] = "X1"
	_, err = NewRpioBoard(bad, clockwork.NewFakeClock())
	assert.Error(t, err, `digit 1: bad pin name "X1"`)
}

func TestRenderRows(t *testing.T) {
	rows := renderRows([4]sevenseg.Pattern{
		sevenseg.Encode(4), sevenseg.Encode(3), sevenseg.Encode(2), sevenseg.Encode(1),
	})
	// reads 1234 left to right
	assert.Equal(t, rows, [5]string{
		"     -   -     ",
		"  |   |   | | |",
		"     -   -   - ",
		"  | |     |   |",
		"     -   -     ",
	})
}

func TestTermBoardLatch(t *testing.T) {
	// not Init'd, so nothing is drawn to a real terminal
	tb := NewTermBoard(clockwork.NewFakeClock())
	m := multiplex.New(tb)
	m.Refresh(42, 0)
	assert.Equal(t, tb.drawn[multiplex.Pos0], sevenseg.Encode(2))
	assert.Equal(t, tb.drawn[multiplex.Pos1], sevenseg.Encode(4))
	assert.Equal(t, tb.drawn[multiplex.Pos3], sevenseg.Encode(0))
	assert.NilError(t, tb.Close())
}
