package logging

import (
	"fmt"
	"os"
)

// DebugVariable enables debug output when set to any non-empty value.
const DebugVariable = "STUDY_DEBUG"

// DebugEnabled returns true if debug mode is enabled via STUDY_DEBUG
func DebugEnabled() bool {
	return os.Getenv(DebugVariable) != ""
}

// Debugf prints a formatted message to stderr only in debug mode
func Debugf(format string, args ...any) {
	if DebugEnabled() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Debugln prints a message followed by a newline to stderr only in debug mode
func Debugln(args ...any) {
	if DebugEnabled() {
		fmt.Fprintln(os.Stderr, args...)
	}
}
