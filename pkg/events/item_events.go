package events

import "time"

const ItemExchange = "itemstore.item"

const (
	ItemCreatedEvent = "item.created"
	ItemUpdatedEvent = "item.updated"
	ItemDeletedEvent = "item.deleted"
)

const (
	EventVersionV1 = "v1"
)

type ItemCreatedPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ItemUpdatedPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Matched is false when the id did not exist and nothing changed.
	Matched   bool      `json:"matched"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ItemDeletedPayload struct {
	ID        int64     `json:"id"`
	Matched   bool      `json:"matched"`
	DeletedAt time.Time `json:"deletedAt"`
}
