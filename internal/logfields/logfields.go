package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyLines      = "lines"
	KeyCount      = "count"
	KeyBytes      = "bytes"
	KeyCommand    = "command"
	KeyExitCode   = "exit_code"
	KeyLexer      = "lexer"
	KeyStyle      = "style"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Lines(n int) slog.Attr           { return slog.Int(KeyLines, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Lexer(name string) slog.Attr     { return slog.String(KeyLexer, name) }
func Style(name string) slog.Attr     { return slog.String(KeyStyle, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Duration reports d in milliseconds under the canonical duration key.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
