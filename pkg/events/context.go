package events

import "context"

type traceKey struct{}

type trace struct {
	traceID       string
	correlationID string
}

// WithTrace stores request-scoped trace identifiers on ctx.
func WithTrace(ctx context.Context, traceID, correlationID string) context.Context {
	return context.WithValue(ctx, traceKey{}, trace{traceID: traceID, correlationID: correlationID})
}

func TraceFromContext(ctx context.Context) (traceID, correlationID string) {
	t, _ := ctx.Value(traceKey{}).(trace)
	return t.traceID, t.correlationID
}

// HeadersFromContext reuses the identifiers of the current request and
// generates fresh ones for whatever is missing.
func HeadersFromContext(ctx context.Context, service string) Headers {
	traceID, correlationID := TraceFromContext(ctx)
	if traceID == "" {
		traceID = GenerateTraceID()
	}
	if correlationID == "" {
		correlationID = GenerateCorrelationID()
	}

	return Headers{
		TraceID:       traceID,
		CorrelationID: correlationID,
		Service:       service,
	}
}
