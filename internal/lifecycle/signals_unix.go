//go:build !windows

// Package lifecycle lists the OS signals that should end a streaming run.
package lifecycle

import (
	"os"
	"syscall"
)

func TerminationSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
