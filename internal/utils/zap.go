package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a no-op until InitializeLogger runs.
var Logger = zap.NewNop()

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func InitializeLogger(logLevel zapcore.Level, logFilePath string) {
	// Create all necessary directories for the log file
	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		panic(fmt.Sprintf("Failed to create log directory: %v", err))
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level.SetLevel(logLevel)
	config := zap.Config{
		Level:       level,
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{logFilePath},
		ErrorOutputPaths: []string{logFilePath},
	}

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	Logger = logger.Named("cinedeck")
}

// SetLevel changes the level of the running logger.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// ParseLevel maps a config value such as "debug" to a level. Unknown values
// fall back to info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// SyncLogger ensures all log entries are flushed
func SyncLogger() error {
	if Logger != nil {
		return Logger.Sync()
	}
	return nil
}
