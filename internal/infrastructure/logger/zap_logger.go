package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(level string) (*zap.Logger, error) {
	return build(level, nil)
}

// NewFileLogger writes JSON logs to path in addition to stderr.
func NewFileLogger(path string, level string) (*zap.Logger, error) {
	return build(level, []string{path})
}

func build(level string, extraPaths []string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	// Parse level
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		l = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(l)
	config.OutputPaths = append(config.OutputPaths, extraPaths...)

	return config.Build()
}
