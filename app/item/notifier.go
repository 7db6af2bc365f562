package item

import (
	"context"

	"itemstore/pkg/events"
	"itemstore/pkg/metrics"

	"go.uber.org/zap"
)

// Notifier publishes item lifecycle events. A nil Notifier, or one without
// a publisher, drops events silently.
type Notifier struct {
	publisher events.Publisher
	service   string
}

func NewNotifier(publisher events.Publisher, service string) *Notifier {
	return &Notifier{
		publisher: publisher,
		service:   service,
	}
}

func (n *Notifier) Notify(ctx context.Context, name string, itemID int64, payload any) {
	if n == nil || n.publisher == nil {
		return
	}

	headers := events.HeadersFromContext(ctx, n.service)

	event, err := events.NewEvent(name, events.EventVersionV1, payload, headers)
	if err != nil {
		zap.L().Error("Failed to build item event",
			zap.String("event", name),
			zap.Int64("itemId", itemID),
			zap.Error(err),
		)
		metrics.EventsPublished.WithLabelValues(name, "error").Inc()
		return
	}

	if err := n.publisher.Publish(ctx, events.ItemExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish item event",
			zap.String("event", name),
			zap.Int64("itemId", itemID),
			zap.String("traceId", headers.TraceID),
			zap.Error(err),
		)
		metrics.EventsPublished.WithLabelValues(name, "error").Inc()
		return
	}

	metrics.EventsPublished.WithLabelValues(name, "ok").Inc()
}
