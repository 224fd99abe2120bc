package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a no-op until InitLogger runs so packages can log from tests.
var Logger = zap.NewNop()

type requestIDKey struct{}

func InitLogger(serviceName, environment, level string) error {
	config := zap.NewProductionConfig()

	config.EncoderConfig.TimeKey = "@timestamp"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "log.level"
	config.EncoderConfig.CallerKey = "log.logger"
	config.EncoderConfig.StacktraceKey = "error.stack_trace"

	if environment == "local" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config.Encoding = "json"
		config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	}

	atomicLevel, err := parseLevel(environment, level)
	if err != nil {
		return err
	}
	config.Level = atomicLevel

	config.InitialFields = map[string]interface{}{
		"service": serviceName,
		"env":     environment,
	}

	logger, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	Logger = logger
	return nil
}

func parseLevel(environment, level string) (zap.AtomicLevel, error) {
	if level == "" {
		if environment == "local" {
			return zap.NewAtomicLevelAt(zap.DebugLevel), nil
		}
		return zap.NewAtomicLevelAt(zap.InfoLevel), nil
	}
	return zap.ParseAtomicLevel(level)
}

// Named returns a child logger for callers that log directly rather than
// through the package functions.
func Named(name string) *zap.Logger {
	return Logger.WithOptions(zap.AddCallerSkip(-1)).Named(name)
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, fields...)
}

func WithError(err error) zap.Field {
	return zap.Error(err)
}

func WithString(key, value string) zap.Field {
	return zap.String(key, value)
}

func WithInt(key string, value int) zap.Field {
	return zap.Int(key, value)
}

func WithDuration(key string, value time.Duration) zap.Field {
	return zap.Duration(key, value)
}

// ContextWithRequestID stores the inbound tracing header value.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID returns the request id field for ctx, or a skip field when there is none.
func WithRequestID(ctx context.Context) zap.Field {
	if id := RequestID(ctx); id != "" {
		return zap.String("trace.id", id)
	}
	return zap.Skip()
}

func Sync() error {
	return Logger.Sync()
}
