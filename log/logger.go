// Package log provides structured logging scoped to a single run.
//
// Loggers are explicitly constructed and injected into the runner and the
// analysis engine; there is no package-level singleton and no lazy handler
// attachment. Each logger owns its sinks for the lifetime of the run.
//
// Line format is human-readable:
//
//	2026-01-02 15:04:05 [INFO] analyzer: building waterfall
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skysift-io/skysift/iox"
)

// Logger writes one human-readable line per message to the app log file and
// mirrors it to stderr. Safe for concurrent use.
type Logger struct {
	zap    *zap.Logger
	closer io.Closer
}

// New creates a logger appending to the log file at path. The parent
// directory is created if missing.
func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	sink := zapcore.NewMultiWriteSyncer(zapcore.AddSync(f), zapcore.AddSync(os.Stderr))
	l := newWithSyncer(sink)
	l.closer = f
	return l, nil
}

// NewWithWriter creates a logger writing to w. Used by tests to capture
// output.
func NewWithWriter(w io.Writer) *Logger {
	return newWithSyncer(zapcore.AddSync(w))
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func newWithSyncer(ws zapcore.WriteSyncer) *Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "timestamp",
		LevelKey:         "level",
		NameKey:          "source",
		MessageKey:       "message",
		ConsoleSeparator: " ",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05"))
		},
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + l.CapitalString() + "]")
		},
		EncodeName: func(name string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(name + ":")
		},
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		ws,
		zapcore.InfoLevel,
	)
	return &Logger{zap: zap.New(core)}
}

// Named returns a logger whose lines carry the given source name.
func (l *Logger) Named(source string) *Logger {
	return &Logger{zap: l.zap.Named(source), closer: nil}
}

// Info logs an info message with optional structured fields.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, toZapFields(fields)...)
}

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, toZapFields(fields)...)
}

// Error logs an error message with optional structured fields.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, toZapFields(fields)...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Close flushes and releases the log file, if this logger owns one.
func (l *Logger) Close() error {
	iox.DiscardErr(l.zap.Sync)
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func toZapFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	return []zap.Field{zap.Any("fields", fields)}
}
