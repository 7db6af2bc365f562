package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID            string          `json:"id"`
	Event         string          `json:"event"`     // e.g., "item.created"
	Version       string          `json:"version"`   // e.g., "v1"
	Timestamp     time.Time       `json:"timestamp"` // Event occurrence time
	Payload       json.RawMessage `json:"payload"`
	TraceID       string          `json:"traceId"`
	CorrelationID string          `json:"correlationId"`
}

type Headers struct {
	TraceID       string
	CorrelationID string
	Service       string
}

func NewEvent(eventName, version string, payload any, headers Headers) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.NewString(),
		Event:         eventName,
		Version:       version,
		Timestamp:     time.Now().UTC(),
		Payload:       body,
		TraceID:       headers.TraceID,
		CorrelationID: headers.CorrelationID,
	}, nil
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Event) GetRoutingKey() string {
	return e.Event + "." + e.Version
}

// DecodePayload unmarshals the raw payload into out.
func (e *Event) DecodePayload(out any) error {
	return json.Unmarshal(e.Payload, out)
}

func GenerateTraceID() string {
	return uuid.NewString()
}

func GenerateCorrelationID() string {
	return uuid.NewString()
}
