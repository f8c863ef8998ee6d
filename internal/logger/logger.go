// SPDX-License-Identifier: Apache-2.0

// Package logger provides a thin wrapper around zerolog.Logger configured
// from the --verbosity and --log-fmt options.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, Fatal, etc.) are available directly on *Logger.
// Setup is called exactly once per run during bootstrap; the resulting
// process-wide level is never reset within this program.
package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Log output encodings. Mirrors the values accepted by --log-fmt.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding zerolog.Logger
// exposes the full zerolog API while allowing helper methods to be added
// without modifying the upstream type.
type Logger struct {
	zerolog.Logger
}

// Setup builds the process logger from the verbosity level and output
// format.
//
// Verbosity mapping:
//   - 0 — warnings and errors only;
//   - 1 — informational output;
//   - 2 — debug output;
//   - 3 — trace output with caller annotation (the extra runtime
//     diagnostics level).
//
// Output is written to w ("console" uses zerolog.ConsoleWriter, "json"
// writes raw JSON). Any other verbosity or format is rejected; option
// validation normally catches both earlier.
func Setup(verbosity int, format string, w io.Writer) (*Logger, error) {
	var level zerolog.Level
	switch verbosity {
	case 0:
		level = zerolog.WarnLevel
	case 1:
		level = zerolog.InfoLevel
	case 2:
		level = zerolog.DebugLevel
	case 3:
		level = zerolog.TraceLevel
	default:
		return nil, fmt.Errorf("unsupported verbosity %d", verbosity)
	}

	var out io.Writer
	switch format {
	case FormatConsole:
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case FormatJSON:
		out = w
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if verbosity >= 3 {
		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			return runtime.FuncForPC(pc).Name()
		}
		zerolog.CallerFieldName = "func"
		ctx = ctx.Caller()
	}

	l := ctx.Logger()
	return &Logger{l}, nil
}

// Default returns a pre-Setup logger for failures that happen before the
// options are parsed. Writes console output to stderr at info level.
func Default() *Logger {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &Logger{l}
}

// WithConnection returns a child logger carrying the connection ID, used for
// correlating per-connection server logs with access log lines.
func (l *Logger) WithConnection(id string) *Logger {
	child := l.With().Str("connection", id).Logger()
	return &Logger{child}
}
