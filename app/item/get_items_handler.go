package item

import (
	"context"

	"itemstore/domain"
	"itemstore/pkg/httperror"
)

type GetItemsHandler struct {
	repository Repository
}

func NewGetItemsHandler(repository Repository) *GetItemsHandler {
	return &GetItemsHandler{
		repository: repository,
	}
}

type GetItemsRequest struct{}

// GetItemsResponse renders as a bare JSON array, newest item first.
type GetItemsResponse []domain.Item

func (h GetItemsHandler) Handle(ctx context.Context, _ *GetItemsRequest) (*GetItemsResponse, error) {
	items, err := h.repository.GetItems(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.index.failed",
			"Failed to fetch items",
			nil,
		).Wrap(err)
	}

	if items == nil {
		items = make([]domain.Item, 0)
	}

	res := GetItemsResponse(items)
	return &res, nil
}
