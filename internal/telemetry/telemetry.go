// Package telemetry builds the zap logger the command-line tool runs
// with: human-readable on stderr, and a rotated JSON file via
// lumberjack, the same split ausocean-av's cmd tools use between a
// console sink and a file sink.
package telemetry

import (
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logPath     = "jstego.log"
	logMaxSize  = 10 // megabytes
	logMaxAge   = 28 // days
	logBackups  = 3
)

// Options controls how New builds the logger.
type Options struct {
	Verbose bool   // debug-level console output instead of info
	LogFile string // overrides logPath when non-empty
}

// New builds a zap.Logger writing info-or-above (debug-or-above when
// Verbose) to stderr in a human-readable console encoding, and
// everything at debug-or-above as JSON to a lumberjack-rotated file.
func New(opts Options) *zap.Logger {
	consoleLevel := zapcore.InfoLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	path := opts.LogFile
	if path == "" {
		path = logPath
	}
	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSize,
		MaxAge:     logMaxAge,
		MaxBackups: logBackups,
	})

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), consoleLevel),
		zapcore.NewCore(fileEncoder, fileSink, zapcore.DebugLevel),
	)
	return zap.New(core)
}
