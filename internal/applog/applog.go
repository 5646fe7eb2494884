// Package applog implements a leveled logger over a single io.Writer, in
// the teacher pack's dual-level style but scoped to a constructor-
// returned instance rather than a package-level global, since the engine
// is a library meant to be embedded, not a process with one log sink.
package applog

import (
	"fmt"
	"io"
	"log"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled lines to a single writer, gating DEBUG output on
// verbose.
type Logger struct {
	out      *log.Logger
	verbose  bool
	minLevel Level
}

// New creates a Logger writing to w. When verbose is false, Debug calls
// are dropped.
func New(w io.Writer, verbose bool) *Logger {
	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}
	return &Logger{
		out:      log.New(w, "", log.LstdFlags),
		verbose:  verbose,
		minLevel: minLevel,
	}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }
