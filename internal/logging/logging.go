package logging

import (
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Setup configures the standard logger.
// If filename is empty, logging is discarded (except log.Fatal/panic).
// If filename is set, logs go to that file and Bubble Tea logs are enabled too.
func Setup(filename string) (cleanup func(), err error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if filename == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)

	tf, err := tea.LogToFile(filename, "ptr")
	if err != nil {
		f.Close()
		return nil, err
	}

	cleanup = func() {
		tf.Close()
		f.Close()
	}
	return cleanup, nil
}

// Printf returns log.Printf, or nil when verbose is off, for use as a
// container trace hook.
func Printf(verbose bool) func(format string, args ...any) {
	if !verbose {
		return nil
	}
	return log.Printf
}
