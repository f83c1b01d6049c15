package main

import "dscheirer.com/segmux/multiplex"

// runDisplay refreshes the board until quit. Quit is only looked at
// between passes, a pass in flight always finishes.
func runDisplay(rt runtimeConfig) {
	logger := &ThreadLogger{name: "Display"}
	settle := rt.settings.GetDuration(sSettleTime)
	m := multiplex.New(rt.board)

	logger.Printf("refreshing, %v per digit", settle)
	passes := 0
	for {
		select {
		case <-rt.comms.quit:
			m.Blank()
			logger.Printf("Got a quit signal after %d passes", passes)
			return
		default:
		}
		m.Refresh(rt.source.value(), settle)
		passes++
	}
}
