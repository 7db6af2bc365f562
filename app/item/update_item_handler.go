package item

import (
	"context"
	"time"

	"itemstore/domain"
	"itemstore/pkg/events"
	"itemstore/pkg/httperror"
	"itemstore/pkg/metrics"

	"go.uber.org/zap"
)

type UpdateItemHandler struct {
	repository Repository
	notifier   *Notifier
}

type UpdateItemRequest struct {
	ItemID      int64  `json:"-" params:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type UpdateItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewUpdateItemHandler(repository Repository, notifier *Notifier) *UpdateItemHandler {
	return &UpdateItemHandler{
		repository: repository,
		notifier:   notifier,
	}
}

// Handle replaces name and description of the item. An unknown id is not
// reported to the caller: the statement matches nothing and the request
// still succeeds.
func (h UpdateItemHandler) Handle(ctx context.Context, req *UpdateItemRequest) (*UpdateItemResponse, error) {
	if err := validateRequest("update", req); err != nil {
		return nil, err
	}

	affected, err := h.repository.Update(ctx, domain.Item{
		ID:          req.ItemID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.update.failed",
			"Failed to update item",
			nil,
		).Wrap(err)
	}

	if affected == 0 {
		metrics.ZeroRowMutations.WithLabelValues("update").Inc()
		zap.L().Warn("Update matched no item", zap.Int64("itemId", req.ItemID))
	}

	h.notifier.Notify(ctx, events.ItemUpdatedEvent, req.ItemID, events.ItemUpdatedPayload{
		ID:          req.ItemID,
		Name:        req.Name,
		Description: req.Description,
		Matched:     affected > 0,
		UpdatedAt:   time.Now().UTC(),
	})

	return &UpdateItemResponse{
		ID:          req.ItemID,
		Name:        req.Name,
		Description: req.Description,
	}, nil
}
