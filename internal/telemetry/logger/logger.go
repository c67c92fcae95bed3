// Package logger wraps zap the way the draymaster shared packages do:
// a *zap.SugaredLogger embedding, With* helper constructors, and a
// context key pattern so a request-scoped logger threads through the
// planner without an explicit parameter on every call.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's sugared logger with planner-specific helpers.
type Logger struct {
	*zap.SugaredLogger
}

type ctxKey struct{}

// New builds a Logger for the given environment ("development" or
// "production") and minimum level.
func New(environment, level string) (*Logger, error) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	switch level {
	case "debug":
		cfg.Level.SetLevel(zapcore.DebugLevel)
	case "warn":
		cfg.Level.SetLevel(zapcore.WarnLevel)
	case "error":
		cfg.Level.SetLevel(zapcore.ErrorLevel)
	default:
		cfg.Level.SetLevel(zapcore.InfoLevel)
	}

	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := cfg.Build(
		zap.AddCallerSkip(1),
		zap.Fields(zap.String("service", "hos-planner")),
	)
	if err != nil {
		return nil, err
	}
	return &Logger{zapLogger.Sugar()}, nil
}

// Default returns a development logger, falling back to zap's own
// development default if construction somehow fails.
func Default() *Logger {
	l, err := New("development", "debug")
	if err != nil {
		zapLogger, _ := zap.NewDevelopment()
		return &Logger{zapLogger.Sugar()}
	}
	return l
}

// WithContext returns the Logger stashed in ctx, or Default() if none.
func WithContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}

// ToContext returns a copy of ctx carrying l.
func ToContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithTripID tags the logger with a trip identifier.
func (l *Logger) WithTripID(tripID string) *Logger {
	return &Logger{l.SugaredLogger.With("trip_id", tripID)}
}

// WithError tags the logger with an error's message.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{l.SugaredLogger.With("error", err.Error())}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.SugaredLogger.Sync()
}
