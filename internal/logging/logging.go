// Package logging builds the structured loggers shared by the CLI and the
// workspace components.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// New returns a console logger writing to w at the given level name
// ("trace", "debug", "info", "warn", "error"). Unknown names fall back to warn.
func New(level string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return &log.Logger{
		Level:      parseLevel(level),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    isTerminal(w),
			QuoteString:    true,
			EndWithMessage: true,
		},
	}
}

// Nop returns a logger that discards everything.
func Nop() *log.Logger {
	return &log.Logger{Level: log.PanicLevel, Writer: log.IOWriter{Writer: io.Discard}}
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l *log.Logger) *log.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
