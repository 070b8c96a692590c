package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap/zapcore"
)

// NewSlogLogger wraps a Logger in the standard library's slog front end, so
// packages that take *slog.Logger still write through the zap core and the
// installed mirror.
func NewSlogLogger(l *Logger) *slog.Logger {
	if l == nil {
		l = Default()
	}
	return slog.New(&slogBridge{logger: l})
}

type slogBridge struct {
	logger *Logger
	attrs  []slog.Attr
	group  string
}

func (b *slogBridge) Enabled(_ context.Context, level slog.Level) bool {
	return b.logger.Zap().Core().Enabled(toZapLevel(level))
}

func (b *slogBridge) Handle(ctx context.Context, record slog.Record) error {
	args := make([]any, 0, (len(b.attrs)+record.NumAttrs())*2)
	for _, attr := range b.attrs {
		args = b.appendAttr(args, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		args = b.appendAttr(args, attr)
		return true
	})

	b.logger.logContext(ctx, toZapLevel(record.Level), record.Message, args...)
	return nil
}

func (b *slogBridge) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	merged = append(merged, b.attrs...)
	merged = append(merged, attrs...)
	return &slogBridge{logger: b.logger, attrs: merged, group: b.group}
}

func (b *slogBridge) WithGroup(name string) slog.Handler {
	if name == "" {
		return b
	}
	prefix := name
	if b.group != "" {
		prefix = b.group + "." + name
	}
	return &slogBridge{logger: b.logger, attrs: b.attrs, group: prefix}
}

func (b *slogBridge) appendAttr(args []any, attr slog.Attr) []any {
	if attr.Equal(slog.Attr{}) {
		return args
	}
	key := attr.Key
	if b.group != "" {
		key = b.group + "." + key
	}
	return append(args, key, attr.Value.Resolve().Any())
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
