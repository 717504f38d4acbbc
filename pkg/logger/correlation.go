package logger

import (
	"context"
	"log/slog"

	"SettleKaro/pkg/correlation"
)

type disputeKey struct{}

// WithDisputeID tags every record logged with ctx with dispute_id.
func WithDisputeID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, disputeKey{}, id)
}

// ContextHandler wraps an slog.Handler and injects correlation_id and
// dispute_id from the context into every log record.
type ContextHandler struct {
	inner slog.Handler
}

func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if corrID := correlation.FromContext(ctx); corrID != "" {
		r.AddAttrs(slog.String("correlation_id", corrID))
	}
	if id, ok := ctx.Value(disputeKey{}).(string); ok && id != "" {
		r.AddAttrs(slog.String("dispute_id", id))
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
