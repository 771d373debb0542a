package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimeLayout is the timestamp layout of console log lines
const TimeLayout = "2006/01/02 15:04:05"

// LogConfig selects the level and encoding of a zap logger
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string
	// Encoding is console or json
	Encoding string
}

// ZapLogger implements Logger on top of zap
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

var _ Logger = (*ZapLogger)(nil)

// NewZapLogger builds a zap logger writing to stderr
func NewZapLogger(cfg LogConfig) (*ZapLogger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	atomic := zap.NewAtomicLevelAt(levelToZap(lvl))

	zcfg := zap.NewDevelopmentConfig()
	switch cfg.Encoding {
	case "", "console":
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		zcfg = zap.NewProductionConfig()
		zcfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("unknown log encoding %q", cfg.Encoding)
	}
	zcfg.Level = atomic
	zcfg.DisableStacktrace = true
	zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(TimeLayout)

	built, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &ZapLogger{logger: built, level: atomic}, nil
}

// WrapZap adapts an existing zap logger
func WrapZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l, level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
}

func (l *ZapLogger) must() *zap.Logger {
	if l == nil || l.logger == nil {
		return zap.NewNop()
	}
	return l.logger
}

// Log writes an entry at level. When ctx carries a valid span, trace_id and
// span_id are appended.
func (l *ZapLogger) Log(ctx context.Context, level Level, msg string, fields ...Field) {
	zf := fieldsToZap(fields)

	if ctx != nil {
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			zf = append(zf,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}
	}

	switch level {
	case LevelDebug:
		l.must().Debug(msg, zf...)
	case LevelWarn:
		l.must().Warn(msg, zf...)
	case LevelError:
		l.must().Error(msg, zf...)
	default:
		l.must().Info(msg, zf...)
	}
}

// With returns a child logger with additional fields
func (l *ZapLogger) With(fields ...Field) Logger {
	return &ZapLogger{logger: l.must().With(fieldsToZap(fields)...), level: l.level}
}

// Enabled reports whether the logger would emit at level
func (l *ZapLogger) Enabled(level Level) bool {
	return l.must().Core().Enabled(levelToZap(level))
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.must().Sync()
}

// Level returns the runtime-adjustable level
func (l *ZapLogger) Level() zap.AtomicLevel {
	return l.level
}

func levelToZap(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func fieldsToZap(fields []Field) []zap.Field {
	zf := make([]zap.Field, len(fields))
	for i, f := range fields {
		if err, ok := f.Value.(error); ok && f.Key == "error" {
			zf[i] = zap.Error(err)
			continue
		}
		zf[i] = zap.Any(f.Key, f.Value)
	}
	return zf
}
