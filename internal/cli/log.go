// Package cli is the kintree command line.
//
// Every command takes a family file, either a TOML definition or a JSON or
// YAML record list. render and map draw it. stats, distances and route
// answer distance questions. export, import, push, pull and datasets move
// records between files and the dataset store. serve exposes the same
// operations over HTTP, and cache manages rendered artifacts.
//
// Logs are written to stderr so that command output can be piped; pass
// --verbose for debug output.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// logSince logs msg at info level with the time elapsed since start.
func logSince(l *log.Logger, start time.Time, msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(start).Round(time.Millisecond))
	l.Info(msg, keyvals...)
}
