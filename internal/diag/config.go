// Package diag turns source cursors into human-readable diagnostics: a
// file:line:col position, the text of the line (or a window of it), a caret
// under the offending column, and leveled log output.
//
// Nothing here is global. Width, color and verbosity travel in a Config that
// callers build once and pass down.
package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// DefaultWidth is the widest line shown before it is cut down to a window
// around the column of interest.
const DefaultWidth = 80

// Level orders diagnostics by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelVerbose
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// prefix is the fixed-width tag written before every log line.
func (l Level) prefix() string {
	switch l {
	case LevelDebug:
		return "[DBG] "
	case LevelVerbose:
		return "[VRB] "
	case LevelInfo:
		return "[INF] "
	case LevelWarn:
		return "[WRN] "
	case LevelError:
		return "[ERR] "
	default:
		return "[FTL] "
	}
}

// ansi is the 256-color escape for the level.
func (l Level) ansi() string {
	switch l {
	case LevelDebug:
		return "\x1b[38;5;6m"
	case LevelVerbose:
		return "\x1b[38;5;8m"
	case LevelInfo:
		return "\x1b[39m"
	case LevelWarn:
		return "\x1b[38;5;3m"
	case LevelError:
		return "\x1b[38;5;1m"
	default:
		return "\x1b[38;5;0;48;5;1m"
	}
}

const ansiReset = "\x1b[0m"

// ParseLevel accepts the names produced by Level.String.
func ParseLevel(s string) (Level, error) {
	for l := LevelDebug; l <= LevelFatal; l++ {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Config controls how diagnostics are rendered and which are shown.
type Config struct {
	// Width is the widest line shown whole. Zero means DefaultWidth.
	Width int

	// Color enables ANSI escapes.
	Color bool

	// Level is the least severe level that is logged.
	Level Level
}

// DefaultConfig returns an 80-column configuration at LevelInfo, with color
// when standard error is a terminal.
func DefaultConfig() Config {
	return Config{
		Width: DefaultWidth,
		Color: ColorEnabled(os.Stderr),
		Level: LevelInfo,
	}
}

func (c Config) width() int {
	if c.Width <= 0 {
		return DefaultWidth
	}
	return c.Width
}

// ColorEnabled reports whether f is a terminal and NO_COLOR is unset.
func ColorEnabled(f *os.File) bool {
	if f == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ParseColor resolves an auto, always or never flag value. Auto asks
// ColorEnabled about f.
func ParseColor(mode string, f *os.File) (bool, error) {
	switch strings.ToLower(mode) {
	case "", "auto":
		return ColorEnabled(f), nil
	case "always", "on", "true":
		return true, nil
	case "never", "off", "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid color mode %q: want auto, always or never", mode)
	}
}
