//go:build unit

package testutil

import (
	"io"
	"log/slog"
)

// NewSilentLogger discards everything; tests assert on behavior, not
// log output.
func NewSilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
