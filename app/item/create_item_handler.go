package item

import (
	"context"
	"net/http"

	"itemstore/domain"
	"itemstore/pkg/events"
	"itemstore/pkg/httperror"
)

type CreateItemHandler struct {
	repository Repository
	notifier   *Notifier
}

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required" db:"name"`
	Description string `json:"description" validate:"required" db:"description"`
}

type CreateItemResponse struct {
	domain.Item
}

func (CreateItemResponse) StatusCode() int {
	return http.StatusCreated
}

func NewCreateItemHandler(repository Repository, notifier *Notifier) *CreateItemHandler {
	return &CreateItemHandler{
		repository: repository,
		notifier:   notifier,
	}
}

func (h CreateItemHandler) Handle(ctx context.Context, req *CreateItemRequest) (*CreateItemResponse, error) {
	if err := validateRequest("create", req); err != nil {
		return nil, err
	}

	item, err := h.repository.Create(ctx, req)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.create.failed",
			"Failed to create item",
			nil,
		).Wrap(err)
	}

	h.notifier.Notify(ctx, events.ItemCreatedEvent, item.ID, events.ItemCreatedPayload{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
	})

	return &CreateItemResponse{
		Item: item,
	}, nil
}
