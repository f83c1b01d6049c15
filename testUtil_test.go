package main

import (
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"dscheirer.com/segmux/boards"
	"github.com/jonboulle/clockwork"
)

func logCaller(pc uintptr, file string, line int, ok bool) {
	if !ok {
		file = "?"
		line = 0
	}

	fn := runtime.FuncForPC(pc)
	var fnName string
	if fn == nil {
		fnName = "?()"
	} else {
		dotName := filepath.Ext(fn.Name())
		fnName = strings.TrimLeft(dotName, ".") + "()"
	}

	log.Printf("Starting %s (%s:%d)", fnName, filepath.Base(file), line)
}

// testRuntime is a runtime on a fake clock and a log board
func testRuntime(settings configSettings) (runtimeConfig, clockwork.FakeClock, *boards.LogBoard) {
	logCaller(runtime.Caller(1))
	clock := clockwork.NewFakeClock()
	lb := boards.NewLogBoard(clock)
	lb.Init()
	return initRuntime(settings, clock, lb), clock, lb
}

// testBlockDuration waits for one sleeper then moves the clock past it
func testBlockDuration(clock clockwork.FakeClock, d time.Duration) {
	clock.BlockUntil(1)
	clock.Advance(d)
}
