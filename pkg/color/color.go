// Package color provides terminal color output support.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"fmt"
	"os"
	"sync"
)

var state struct {
	enabled  bool
	once     sync.Once
	disabled bool
}

// Init initializes the color system based on environment and flags.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		if _, exists := os.LookupEnv("NO_COLOR"); exists {
			state.disabled = true
		}
		if term := os.Getenv("TERM"); term == "dumb" {
			state.disabled = true
		}
		if noColorFlag {
			state.disabled = true
		}
		state.enabled = !state.disabled
	})
}

// Enabled returns true if color output is enabled.
func Enabled() bool {
	Init(false) // Ensure initialized
	return state.enabled
}

// Disable turns off color output.
func Disable() {
	state.disabled = true
	state.enabled = false
}

// ANSI color codes
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func wrap(code, s string) string {
	if !Enabled() {
		return s
	}
	return code + s + Reset
}

// Error formats an error message in red.
func Error(s string) string {
	return wrap(Red, s)
}

// Success formats a success message in green.
func Success(s string) string {
	return wrap(Green, s)
}

// Warning formats a warning message in yellow.
func Warning(s string) string {
	return wrap(Yellow, s)
}

// Snapshot formats a snapshot name in cyan (for visibility).
func Snapshot(s string) string {
	return wrap(Cyan, s)
}

// Header formats a header in bold.
func Header(s string) string {
	return wrap(Bold, s)
}

// Successf formats a success message with printf-style arguments.
func Successf(format string, args ...any) string {
	return Success(fmt.Sprintf(format, args...))
}
