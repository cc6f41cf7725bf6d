// Package logger provides logging implementations.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/framerec/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// console is the output shared by a logger and its component loggers.
// Writes are serialized.
type console struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	color    bool
	errColor bool
}

// ConsoleLogger writes translated messages to stdout (debug, info) and
// stderr (warn, error).
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	c         *console
}

// NewConsole creates a console logger on stdout/stderr. Color is enabled per
// stream when that stream is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	l := NewConsoleWriter(os.Stdout, os.Stderr, level, false)
	l.c.color = isTerminal(os.Stdout)
	l.c.errColor = isTerminal(os.Stderr)
	return l
}

// NewConsoleWriter creates a console logger on the given streams.
func NewConsoleWriter(out, errOut io.Writer, level ports.LogLevel, color bool) *ConsoleLogger {
	return &ConsoleLogger{
		level: level,
		c:     &console{out: out, errOut: errOut, color: color, errColor: color},
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.log(ports.LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.log(ports.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.log(ports.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(ports.LevelError, msg, args...)
}

// WithComponent returns a logger tagged with component. Tags nest, so a
// component logger derived from "recorder" for "persist" prints
// [recorder/persist].
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	if l.component != "" {
		component = l.component + "/" + component
	}
	return &ConsoleLogger{level: l.level, component: component, c: l.c}
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args ...interface{}) {
	if level < l.level {
		return
	}
	line := l10n.F(msg, args...)

	w, color := l.c.out, l.c.color
	if level >= ports.LevelWarn {
		w, color = l.c.errOut, l.c.errColor
	}

	if l.component != "" {
		if color {
			line = fmt.Sprintf("%s[%s]%s %s", colorCyan, l.component, colorReset, line)
		} else {
			line = fmt.Sprintf("[%s] %s", l.component, line)
		}
	}

	if color {
		switch level {
		case ports.LevelDebug:
			line = colorGray + line + colorReset
		case ports.LevelWarn:
			line = colorYellow + line + colorReset
		case ports.LevelError:
			line = colorRed + line + colorReset
		}
	} else if level >= ports.LevelWarn {
		// uncolored warn/error lines carry a level tag
		line = level.String() + ": " + line
	}

	l.c.mu.Lock()
	fmt.Fprintln(w, line)
	l.c.mu.Unlock()
}

var _ ports.Logger = (*ConsoleLogger)(nil)
