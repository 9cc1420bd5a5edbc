package logging

import (
	"context"
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

type traceIDKey struct{}

// TraceIDField is the log field name used for trace IDs.
const TraceIDField = "trace_id"

// NewTraceID returns a new lexicographically sortable trace ID.
func NewTraceID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// ContextWithTraceID stores traceID in ctx.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "" if none.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// GetOrGenerateTraceID returns the trace ID already in ctx or a fresh one.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}
