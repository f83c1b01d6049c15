package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"dscheirer.com/segmux/boards"
	"github.com/jonboulle/clockwork"
)

var wg sync.WaitGroup

// segmux -config={config file}

// watchQuit closes quit on a signal, or when the terminal board says so
func watchQuit(rt runtimeConfig) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var termQuit <-chan struct{}
	if tb, ok := rt.board.(*boards.TermBoard); ok {
		termQuit = tb.Quit()
	}

	select {
	case s := <-sigs:
		log.Printf("Got signal %v", s)
	case <-termQuit:
		log.Printf("Quit from terminal")
	}
	close(rt.comms.quit)
}

func main() {
	configFile := flag.String("config", "", "config file path")
	flag.Parse()

	settings, err := loadSettings(*configFile)
	if err != nil {
		log.Fatalf("Settings: %v", err)
	}

	// the terminal board owns stderr
	logs, err := setupLogging(settings, settings.GetString(sBoard) != "term")
	if err != nil {
		log.Fatalf("Logging: %v", err)
	}
	defer logs.Close()

	log.Println(">>> Settings <<<")
	settings.Dump()

	pins, err := boards.PinsFromLists(
		settings.GetStrings(sSegmentPins),
		settings.GetStrings(sDigitPins),
		settings.GetBool(sDigitActiveLow))
	if err != nil {
		log.Fatalf("Pins: %v", err)
	}

	clock := clockwork.NewRealClock()
	board, err := boards.Open(boards.Config{
		Kind:      settings.GetString(sBoard),
		Pins:      pins,
		I2CBus:    settings.GetString(sI2CBus),
		I2CAddr:   uint16(settings.GetInt(sI2CDev)),
		DebugDump: settings.GetBool(sDebug),
	}, clock)
	if err != nil {
		log.Fatalf("Board: %v", err)
	}
	if err := board.Init(); err != nil {
		log.Fatalf("Board init: %v", err)
	}

	rt := initRuntime(settings, clock, board)

	var svc httpValueService
	if addr := settings.GetString(sHTTPAddr); addr != "" {
		svc.launch(newAPIHandler(rt.source), addr)
	}

	go watchQuit(rt)

	// forever, or until a signal
	runDisplay(rt)

	svc.stop()
	wg.Wait()

	if err := board.Close(); err != nil {
		log.Printf("Board close: %v", err)
	}
}
