// Package logger builds the slog handler stack for a pipeline run.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures logger construction.
type Options struct {
	logToFile bool
	logFile   string
	level     slog.Level
}

// Option mutates logger Options.
type Option func(*Options)

// WithLogToFile enables mirroring log records to a rotating file.
func WithLogToFile(enabled bool) Option {
	return func(o *Options) {
		o.logToFile = enabled
	}
}

// WithLogFile sets the log file path used when file logging is enabled.
func WithLogFile(path string) Option {
	return func(o *Options) {
		o.logFile = path
	}
}

// WithLevel sets the minimum record level.
func WithLevel(level slog.Level) Option {
	return func(o *Options) {
		o.level = level
	}
}

// New creates a logger for the given environment. Development environments get
// a colorized console handler; production gets plain JSON. When file logging
// is enabled, records are duplicated into a rotating log file.
func New(environment string, opts ...Option) *slog.Logger {
	options := &Options{
		logFile: "logs/cascade.log",
		level:   slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(options)
	}

	var console slog.Handler
	if environment == "production" {
		console = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: options.level})
	} else {
		console = tint.NewHandler(os.Stderr, &tint.Options{Level: options.level})
	}

	if !options.logToFile {
		return slog.New(console)
	}

	var file io.Writer = &lumberjack.Logger{
		Filename:   options.logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	return slog.New(newFanoutHandler(
		console,
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: options.level}),
	))
}
