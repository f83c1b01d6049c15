// utility functions
package main

import (
	"dscheirer.com/segmux/boards"
	"github.com/jonboulle/clockwork"
)

type commChannels struct {
	quit chan struct{}
}

type runtimeConfig struct {
	settings configSettings
	comms    commChannels
	clock    clockwork.Clock
	board    boards.Board
	source   *valueSource
}

func initCommChannels() commChannels {
	return commChannels{quit: make(chan struct{})}
}

func initRuntime(settings configSettings, clock clockwork.Clock, board boards.Board) runtimeConfig {
	return runtimeConfig{
		settings: settings,
		comms:    initCommChannels(),
		clock:    clock,
		board:    board,
		source: newValueSource(clock,
			uint64(settings.GetInt64(sValue)),
			settings.GetDuration(sCountInterval)),
	}
}
