package strand

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Level mirrors the syslog-style severities strandrt's ambient logging uses,
// independent of whichever structured logging library backs a particular
// [Logger] implementation.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelNotice
	LevelWarning
	LevelError
	LevelCritical
)

// Logger is the structured logging surface the runtime uses for its own
// diagnostics; currently the only event logged is a panic recovered from a
// [Loop] task. Field values are passed as alternating key/value pairs, the
// same convention as slog.
type Logger interface {
	Enabled(level Level) bool
	Log(level Level, msg string, keyvals ...any)
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(err error, msg string, keyvals ...any)
}

func toLogifaceLevel(l Level) logiface.Level {
	switch l {
	case LevelTrace:
		return logiface.LevelTrace
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelNotice:
		return logiface.LevelNotice
	case LevelWarning:
		return logiface.LevelWarning
	case LevelCritical:
		return logiface.LevelCritical
	default:
		return logiface.LevelError
	}
}

// stumpyLogger is the default [Logger], backed by logiface's generic
// logger/builder framework and stumpy's concrete JSON event writer.
type stumpyLogger struct {
	root *logiface.Logger[*stumpy.Event]
}

// NewDefaultLogger builds the runtime's default structured [Logger]: JSON
// lines via logiface+stumpy, written to os.Stderr unless [WithWriter] names
// another sink.
func NewDefaultLogger(opts ...LoggerOption) Logger {
	o := loggerOptions{writer: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	return &stumpyLogger{
		root: stumpy.L.New(
			stumpy.L.WithStumpy(
				stumpy.WithTimeField("time"),
				stumpy.WithWriter(o.writer),
			),
		),
	}
}

// LoggerOption configures [NewDefaultLogger].
type LoggerOption func(*loggerOptions)

type loggerOptions struct {
	writer io.Writer
}

// WithWriter overrides the default logger's output sink.
func WithWriter(w io.Writer) LoggerOption {
	return func(o *loggerOptions) { o.writer = w }
}

func (l *stumpyLogger) Enabled(level Level) bool {
	return l.root.Level() >= toLogifaceLevel(level)
}

func (l *stumpyLogger) build(level Level, err error, keyvals []any) *logiface.Builder[*stumpy.Event] {
	b := l.root.Build(toLogifaceLevel(level))
	if err != nil {
		b = b.Err(err)
	}
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, _ := keyvals[i].(string)
		b = b.Any(key, keyvals[i+1])
	}
	return b
}

func (l *stumpyLogger) Log(level Level, msg string, keyvals ...any) {
	l.build(level, nil, keyvals).Log(msg)
}

func (l *stumpyLogger) Debug(msg string, keyvals ...any) {
	l.build(LevelDebug, nil, keyvals).Log(msg)
}

func (l *stumpyLogger) Info(msg string, keyvals ...any) {
	l.build(LevelInfo, nil, keyvals).Log(msg)
}

func (l *stumpyLogger) Warn(msg string, keyvals ...any) {
	l.build(LevelWarning, nil, keyvals).Log(msg)
}

func (l *stumpyLogger) Error(err error, msg string, keyvals ...any) {
	l.build(LevelError, err, keyvals).Log(msg)
}

// NopLogger discards everything; useful for tests that don't want log noise
// on stderr.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Enabled(Level) bool               { return false }
func (nopLogger) Log(Level, string, ...any)        {}
func (nopLogger) Debug(string, ...any)             {}
func (nopLogger) Info(string, ...any)              {}
func (nopLogger) Warn(string, ...any)              {}
func (nopLogger) Error(error, string, ...any)      {}
