// Package loglevel provides a thin leveled wrapper around the standard
// library's log.Logger, matching the plain stdlib logging the core CPU
// package itself uses for its panic-equivalent fault messages.
package loglevel

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Level orders the verbosity of emitted messages, from silent to
// everything.
type Level int

const (
	Off Level = iota
	Error
	Warn
	Info
	Debug
	Trace
)

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	default:
		return "unknown"
	}
}

// ParseLevel parses a level name case-insensitively. An unrecognized
// name is an error rather than a silent fallback to Off.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return Off, nil
	case "error":
		return Error, nil
	case "warn", "warning":
		return Warn, nil
	case "info":
		return Info, nil
	case "debug":
		return Debug, nil
	case "trace":
		return Trace, nil
	default:
		return Off, fmt.Errorf("loglevel: unknown level %q", s)
	}
}

// Logger writes only the messages at or below its configured level,
// each prefixed with the level name.
type Logger struct {
	level Level
	out   *log.Logger
}

// New returns a Logger writing to w, suppressing anything above level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

func (l *Logger) logAt(level Level, format string, args ...any) {
	if l == nil || level > l.level {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) { l.logAt(Error, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logAt(Warn, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logAt(Info, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.logAt(Debug, format, args...) }
func (l *Logger) Tracef(format string, args ...any) { l.logAt(Trace, format, args...) }

// Printf implements m68k.Logger and console.Logger, routed at Error
// level so address-error/exception diagnostics and unimplemented
// console tasks show up at the default level and are silenced entirely
// by --log off, without being hidden again by --log error.
func (l *Logger) Printf(format string, args ...any) { l.logAt(Error, format, args...) }
