package ir

import (
	"context"
	"log/slog"
)

// slogArg wraps a GenericArg as a slog.LogValuer to not render types
// unless they definitely need to be logged
func slogArg(arg GenericArg) slog.LogValuer { return argLogValuer{arg} }
func slogItem(item *Item) slog.LogValuer    { return itemLogValuer{item} }

type argLogValuer struct{ GenericArg }
type itemLogValuer struct{ *Item }

func (l argLogValuer) LogValue() slog.Value { return slog.StringValue(l.GenericArg.String()) }
func (l itemLogValuer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", string(l.ID)),
		slog.String("kind", l.Kind.String()),
		slog.String("pos", l.Pos.String()),
	)
}

// SlogHandler is a slog.Handler capable of lazy-printing types and items
func SlogHandler(underlying slog.Handler) slog.Handler {
	return &irLogHandler{underlying: underlying}
}

type irLogHandler struct {
	underlying slog.Handler
}

func wrapAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	switch value := attr.Value.Any().(type) {
	case GenericArg:
		attr.Value = slog.AnyValue(slogArg(value))
	case *Item:
		attr.Value = slog.AnyValue(slogItem(value))
	}
	return attr
}

func (l *irLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *irLogHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(wrapAttr(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *irLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		wrapped = append(wrapped, wrapAttr(attr))
	}
	return SlogHandler(l.underlying.WithAttrs(wrapped))
}

func (l *irLogHandler) WithGroup(name string) slog.Handler {
	return SlogHandler(l.underlying.WithGroup(name))
}
