// Package logging builds the one slog.Logger dfcc hands to
// internal/compiler and its subsystems: plain text on stderr by default,
// with the verbosity and source-location detail a CLI invocation asks for.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options controls the handler New builds.
type Options struct {
	// Verbose raises the level from Info to Debug, surfacing
	// internal/compiler's per-statement "declared table" / "lowered view"
	// traces (see internal/compiler/compiler.go).
	Verbose bool
	// AddSource annotates each record with the call site that logged it.
	AddSource bool
	// Writer is where records are written; os.Stderr when nil.
	Writer io.Writer
}

// New returns a text-handler slog.Logger configured from opts.
func New(opts Options) *slog.Logger {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: opts.AddSource,
	}
	if opts.Verbose {
		handlerOpts.Level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(writer, handlerOpts))
}
