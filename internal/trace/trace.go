// Package trace carries a request ID in the context so every log line of a
// request can be grepped as TRACE=<id>.
package trace

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

type ctxKey int

const traceIDKey ctxKey = 0

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}

// NewTraceID returns the first eight hex digits of a random UUID.
func NewTraceID() string {
	return uuid.NewString()[:8]
}

// New returns ctx carrying a fresh trace ID.
func New(ctx context.Context) context.Context {
	return WithTraceID(ctx, NewTraceID())
}

// Log writes a line prefixed with TRACE=id ("-" when ctx has none).
func Log(ctx context.Context, format string, args ...interface{}) {
	id := TraceID(ctx)
	if id == "" {
		id = "-"
	}
	log.Output(2, fmt.Sprintf("TRACE=%s | %s", id, fmt.Sprintf(format, args...)))
}
