// Package logger provides levelled logging for boltsync.
// Messages at info level and above are always written; debug messages
// and section headers appear only when verbose mode is enabled via the
// --verbose flag. Output is rendered by zerolog, either as console lines
// or as JSON.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	format            = FormatConsole
	output  io.Writer = os.Stderr
	log     zerolog.Logger
)

func init() {
	rebuild()
}

// rebuild recreates the zerolog logger (caller must hold mu, or be init).
func rebuild() {
	var w io.Writer = output
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.TimeOnly,
			NoColor:    output != os.Stderr,
		}
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	rebuild()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// SetFormat selects console or JSON output.
func SetFormat(f string) error {
	if f != FormatConsole && f != FormatJSON {
		return fmt.Errorf("unknown log format %q (want %s or %s)", f, FormatConsole, FormatJSON)
	}
	mu.Lock()
	defer mu.Unlock()
	format = f
	rebuild()
	return nil
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	l := current()
	l.Debug().Msgf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	l := current()
	l.Debug().Str("section", name).Msgf("=== %s ===", name)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	l := current()
	l.Info().Msgf(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	l := current()
	l.Warn().Msgf(format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	l := current()
	l.Error().Msgf(format, args...)
}

// Entry is a logger bound to one table.
type Entry struct {
	l zerolog.Logger
}

// Table returns a logger that tags every line with the table name.
func Table(name string) Entry {
	return Entry{l: current().With().Str("table", name).Logger()}
}

// Debug prints a message if verbose mode is enabled.
func (e Entry) Debug(format string, args ...any) {
	e.l.Debug().Msgf(format, args...)
}

// Info prints an informational message.
func (e Entry) Info(format string, args ...any) {
	e.l.Info().Msgf(format, args...)
}

// Warn prints a warning message.
func (e Entry) Warn(format string, args ...any) {
	e.l.Warn().Msgf(format, args...)
}

// Error prints an error message.
func (e Entry) Error(format string, args ...any) {
	e.l.Error().Msgf(format, args...)
}
