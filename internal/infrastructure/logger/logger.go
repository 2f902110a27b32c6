package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/config"
)

// Logger wraps zap.SugaredLogger to provide application-specific logging
type Logger struct {
	*zap.SugaredLogger
}

// New creates a new logger instance
func New(cfg config.LoggerConfig) (*Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Set log level
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	// Configure output
	switch cfg.Output {
	case "file":
		zapConfig.OutputPaths = []string{cfg.Filename}
		zapConfig.ErrorOutputPaths = []string{cfg.Filename}
	case "stdout":
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	default:
		zapConfig.OutputPaths = []string{"stderr"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	// Add caller information in development
	if cfg.Format != "json" {
		zapConfig.Development = true
		zapConfig.DisableStacktrace = true
	}

	zapLogger, err := zapConfig.Build(
		zap.AddCallerSkip(1), // Skip one level to show the actual caller
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar(),
	}, nil
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// WithFields adds structured fields to the logger
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(fields...),
	}
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err.Error())
}

// WithSessionID adds the invocation's session ID field to the logger
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return l.WithFields("session_id", sessionID)
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// LogStoreOperation records the outcome of a store operation
func (l *Logger) LogStoreOperation(operation string, rollNumber int, duration float64, err error) {
	fields := []interface{}{
		"operation", operation,
		"roll_number", rollNumber,
		"duration_ms", duration,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		l.Warnw("Store operation failed", fields...)
	} else {
		l.Debugw("Store operation completed", fields...)
	}
}

// Close flushes any buffered log entries
func (l *Logger) Close() error {
	return l.SugaredLogger.Sync()
}
