package log

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level selects the minimum severity that gets emitted.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

// ParseLevel maps a config string onto a Level, defaulting to info for
// anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "ERROR":
		return LevelError
	}
	return LevelInfo
}

var (
	sugar      *zap.SugaredLogger
	loggerOnce sync.Once
	atom       = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// initLogger builds the process-wide zap logger: console encoding on
// stderr with ISO8601 timestamps, level adjustable at runtime via the
// atomic handle.
func initLogger() {
	loggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = atom
		cfg.Encoding = "console"
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

		l, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			// Never fail the process over logging; drop output instead.
			l = zap.NewNop()
		}
		sugar = l.Sugar()
	})
}

// SetLevel adjusts the minimum emitted level. Safe to call at any time,
// including before the first log line.
func SetLevel(l Level) {
	initLogger()
	switch l {
	case LevelDebug:
		atom.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		atom.SetLevel(zapcore.InfoLevel)
	case LevelError:
		atom.SetLevel(zapcore.ErrorLevel)
	}
}

// Debug logs msg with alternating key/value pairs.
func Debug(msg string, kv ...any) {
	initLogger()
	sugar.Debugw(msg, kv...)
}

// Info logs msg with alternating key/value pairs.
func Info(msg string, kv ...any) {
	initLogger()
	sugar.Infow(msg, kv...)
}

// Error logs msg with the error prepended to the key/value pairs.
func Error(msg string, err error, kv ...any) {
	initLogger()
	extended := append([]any{"err", err}, kv...)
	sugar.Errorw(msg, extended...)
}

// Sync flushes buffered output; call on shutdown.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
