// Package logger provides verbose logging for the docqa CLI.
// When verbose mode is enabled via the --verbose flag, pipeline messages
// are printed to stderr to show how an answer was produced.
//
// Records are written through zap with a console encoder. When verbose
// mode is off the package logger is a no-op.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	sink    zapcore.WriteSyncer = zapcore.Lock(zapcore.AddSync(os.Stderr))
	log                         = zap.NewNop()
	sugar                       = log.Sugar()
)

// encoderConfig renders "[LEVEL] message {fields}" without timestamps.
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      bracketLevel,
		EncodeDuration:   zapcore.StringDurationEncoder,
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
	}
}

func bracketLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}

// rebuild swaps the package logger after a settings change (caller must hold mu).
func rebuild() {
	if verbose {
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), sink, zapcore.DebugLevel)
		log = zap.New(core)
	} else {
		log = zap.NewNop()
	}
	sugar = log.Sugar()
}

// SetVerbose turns pipeline logging on or off.
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

// SetOutput redirects verbose logs, which go to stderr by default.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sink = zapcore.Lock(zapcore.AddSync(w))
	rebuild()
}

// L returns the structured logger. It is a no-op unless verbose mode is on.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func sugared() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs a printf-style message in verbose mode.
func Debug(format string, args ...any) { sugared().Debugf(format, args...) }

// Info logs a printf-style message in verbose mode.
func Info(format string, args ...any) { sugared().Infof(format, args...) }

// Warn logs a printf-style message in verbose mode.
func Warn(format string, args ...any) { sugared().Warnf(format, args...) }

// Section prints a "=== name ===" banner in verbose mode.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		_, _ = fmt.Fprintf(sink, "\n=== %s ===\n", name)
	}
}
