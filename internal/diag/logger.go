package diag

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/hassan/allium/internal/source"
)

// Logger writes leveled messages. Debug, verbose and info go to the out
// writer; warnings and worse go to the err writer. Fatal does not exit.
type Logger struct {
	out, err *log.Logger
	cfg      Config
	render   *Renderer
}

// NewLogger returns a Logger writing to out and errOut under cfg.
func NewLogger(out, errOut io.Writer, cfg Config) *Logger {
	return &Logger{
		out:    log.New(out, "", 0),
		err:    log.New(errOut, "", 0),
		cfg:    cfg,
		render: NewRenderer(cfg),
	}
}

// Config returns the configuration the logger was built with.
func (l *Logger) Config() Config { return l.cfg }

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.cfg.Level
}

func (l *Logger) sink(level Level) *log.Logger {
	if level >= LevelWarn {
		return l.err
	}
	return l.out
}

// Log writes one message at level.
func (l *Logger) Log(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	msg := level.prefix() + fmt.Sprintf(format, args...)
	if l.cfg.Color {
		msg = level.ansi() + msg + ansiReset
	}
	_ = l.sink(level).Output(2, msg)
}

func (l *Logger) Debug(format string, args ...any)   { l.Log(LevelDebug, format, args...) }
func (l *Logger) Verbose(format string, args ...any) { l.Log(LevelVerbose, format, args...) }
func (l *Logger) Info(format string, args ...any)    { l.Log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)    { l.Log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any)   { l.Log(LevelError, format, args...) }
func (l *Logger) Fatal(format string, args ...any)   { l.Log(LevelFatal, format, args...) }

// Report logs msg at level with a snippet of the source around c. If the
// context cannot be built, msg is logged alone together with the reason.
func (l *Logger) Report(level Level, c source.Cursor, msg string) {
	if !l.Enabled(level) {
		return
	}
	ctx, err := NewContext(c, l.cfg.width())
	if err != nil {
		l.Log(level, "%s (no source context: %v)", msg, err)
		return
	}

	var b strings.Builder
	if err := l.render.Render(&b, ctx); err != nil {
		l.Log(level, "%s", msg)
		return
	}
	l.Log(level, "%s\n%s", msg, strings.TrimSuffix(b.String(), "\n"))
}
