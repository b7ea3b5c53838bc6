// Package logging supplies the context-propagating slog handler used
// throughout the server, so request-scoped attributes like a request id
// show up on every log line written while handling that request.
package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// ContextHandler wraps a slog.Handler, appending any attributes stashed on
// the context via AppendCtx to every record emitted through it.
type ContextHandler struct {
	slog.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx returns a context carrying attr in addition to any attributes
// already stashed on ctx, for handlers to pick up via ContextHandler.
func AppendCtx(ctx context.Context, attr slog.Attr) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, ok := ctx.Value(ctxKey{}).([]slog.Attr)
	if !ok {
		return context.WithValue(ctx, ctxKey{}, []slog.Attr{attr})
	}
	appended := make([]slog.Attr, len(existing), len(existing)+1)
	copy(appended, existing)
	appended = append(appended, attr)
	return context.WithValue(ctx, ctxKey{}, appended)
}
