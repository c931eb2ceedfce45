package logging

import (
	"context"
	"log/slog"
)

// LevelHandler drops records below a minimum level before they reach inner.
// Used for sinks that carry no level option of their own.
type LevelHandler struct {
	level slog.Leveler
	inner slog.Handler
}

// NewLevelHandler wraps inner with a minimum level.
func NewLevelHandler(level slog.Leveler, inner slog.Handler) *LevelHandler {
	return &LevelHandler{level: level, inner: inner}
}

func (h *LevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.inner.Enabled(ctx, level)
}

func (h *LevelHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.level.Level() {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *LevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelHandler{level: h.level, inner: h.inner.WithAttrs(attrs)}
}

func (h *LevelHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &LevelHandler{level: h.level, inner: h.inner.WithGroup(name)}
}
