package ui

import (
	"os"

	"golang.org/x/term"
)

const noColorEnvironmentVariableConstant = "NO_COLOR"

type fileDescriptorProvider interface {
	Fd() uintptr
}

// TerminalDetector reports whether a stream is attached to a terminal.
type TerminalDetector func(stream any) bool

// IsTerminal reports whether stream is a file attached to a terminal.
// Buffers, pipes wrapped in non-file types, and nil report false.
func IsTerminal(stream any) bool {
	descriptorProvider, hasDescriptor := stream.(fileDescriptorProvider)
	if !hasDescriptor {
		return false
	}
	return term.IsTerminal(int(descriptorProvider.Fd()))
}

// ColorEnabled reports whether colored output suits stream. NO_COLOR disables color.
func ColorEnabled(stream any, detector TerminalDetector) bool {
	if _, noColorRequested := os.LookupEnv(noColorEnvironmentVariableConstant); noColorRequested {
		return false
	}
	if detector == nil {
		detector = IsTerminal
	}
	return detector(stream)
}
