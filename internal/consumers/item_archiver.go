package consumers

import (
	"context"
	"errors"
	"fmt"
	"path"

	"itemstore/pkg/events"
	"itemstore/pkg/metrics"

	"go.uber.org/zap"
)

var ErrMalformedEvent = errors.New("malformed event")

// ObjectStore is the subset of pkg/aws.S3 the archiver writes to.
type ObjectStore interface {
	Upload(key string, data []byte) error
}

// ItemArchiver copies item lifecycle events into object storage, one object
// per event.
type ItemArchiver struct {
	store  ObjectStore
	prefix string
}

func NewItemArchiver(store ObjectStore, prefix string) *ItemArchiver {
	return &ItemArchiver{
		store:  store,
		prefix: prefix,
	}
}

func (h *ItemArchiver) HandleEvent(ctx context.Context, event *events.Event) error {
	zap.L().Info("Item event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("eventId", event.ID),
		zap.String("traceId", event.TraceID),
	)

	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	switch event.Event {
	case events.ItemCreatedEvent:
		err = h.archive(event, &events.ItemCreatedPayload{})
	case events.ItemUpdatedEvent:
		err = h.archive(event, &events.ItemUpdatedPayload{})
	case events.ItemDeletedEvent:
		err = h.archive(event, &events.ItemDeletedPayload{})
	default:
		zap.L().Warn("Unknown item event type", zap.String("event", event.Event))
		metrics.EventsArchived.WithLabelValues(event.Event, "skipped").Inc()
		return nil
	}

	if err != nil {
		metrics.EventsArchived.WithLabelValues(event.Event, "failed").Inc()
		return err
	}

	metrics.EventsArchived.WithLabelValues(event.Event, "archived").Inc()
	return nil
}

// archive checks that the payload decodes into payload before writing the
// whole envelope.
func (h *ItemArchiver) archive(event *events.Event, payload any) error {
	if event.ID == "" {
		return fmt.Errorf("%w: event id missing", ErrMalformedEvent)
	}
	if err := event.DecodePayload(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	key := h.Key(event)
	if err := h.store.Upload(key, body); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	zap.L().Info("Item event archived",
		zap.String("event", event.Event),
		zap.String("key", key),
		zap.String("traceId", event.TraceID),
	)

	return nil
}

// Key returns <prefix>/<yyyy>/<mm>/<dd>/<event>/<id>.json, dated by the
// event timestamp in UTC.
func (h *ItemArchiver) Key(event *events.Event) string {
	ts := event.Timestamp.UTC()
	return path.Join(h.prefix, ts.Format("2006/01/02"), event.Event, event.ID+".json")
}
