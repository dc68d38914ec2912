package applog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger writing structured diagnostic lines to
// stderr, kept separate from the lipgloss-styled human report on stdout
// so piping "simtext -p ... | other-tool" stays clean.
type Logger struct {
	zerolog.Logger
}

// New builds a Logger. When pretty is true (an interactive terminal) it
// uses zerolog's console writer; otherwise it emits plain JSON lines,
// suitable for CI log collection.
func New(pretty bool) *Logger {
	var w io.Writer = os.Stderr
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	l := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{Logger: l}
}

// Discard returns a Logger that drops every event, used by callers (and
// tests) that don't want diagnostic noise.
func Discard() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}
