package ctxutil

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const (
	participantIDKey ctxKey = "participant_id"
	requestIDKey     ctxKey = "request_id"
)

// WithParticipantID stores the authenticated participant ID in the context.
func WithParticipantID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, participantIDKey, id)
}

// ParticipantIDFromCtx extracts the authenticated participant ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func ParticipantIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(participantIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// TraceIDFromCtx returns the hex trace id of the span in ctx, or an empty
// string when ctx carries no sampled span context.
func TraceIDFromCtx(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
