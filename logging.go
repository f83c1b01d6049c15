package main

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type flogger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// ThreadLogger tags each line with the worker that wrote it
type ThreadLogger struct {
	name string
}

func (tl *ThreadLogger) Printf(format string, v ...interface{}) {
	log.Printf("["+tl.name+"] "+format, v...)
}

func (tl *ThreadLogger) Println(v ...interface{}) {
	log.Println(append([]interface{}{"[" + tl.name + "]"}, v...)...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// setupLogging sends the log to the rotated logFile, and to stderr too
// unless something else owns the terminal
func setupLogging(settings configSettings, toStderr bool) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	path := settings.GetString(sLogFile)
	if path == "" {
		if toStderr {
			log.SetOutput(os.Stderr)
		} else {
			log.SetOutput(io.Discard)
		}
		return nopCloser{}, nil
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	// try it now, a bad path shouldn't surface on the first log line
	if _, err := lj.Write([]byte{}); err != nil {
		return nopCloser{}, err
	}

	if toStderr {
		log.SetOutput(io.MultiWriter(os.Stderr, lj))
	} else {
		log.SetOutput(lj)
	}
	return lj, nil
}
