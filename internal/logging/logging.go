// Package logging sets up the process-wide slog.Logger, grounded on the
// teacher corpus's cmd/o/log.go (signadot-tony-format/go-tony).
package logging

import (
	"log/slog"
	"os"
)

// New builds a text-handler logger at the given level, stripping the
// timestamp attribute the way the teacher corpus's CLI logger does so
// output stays diffable across runs.
func New(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}
