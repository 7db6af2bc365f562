package item

import (
	"context"
	"time"

	"itemstore/pkg/events"
	"itemstore/pkg/httperror"
	"itemstore/pkg/metrics"

	"go.uber.org/zap"
)

type DeleteItemHandler struct {
	repository Repository
	notifier   *Notifier
}

func NewDeleteItemHandler(repository Repository, notifier *Notifier) *DeleteItemHandler {
	return &DeleteItemHandler{
		repository: repository,
		notifier:   notifier,
	}
}

type DeleteItemRequest struct {
	ItemID int64 `json:"-" params:"id"`
}

type DeleteItemResponse struct {
	Message string `json:"message"`
}

func (h DeleteItemHandler) Handle(ctx context.Context, req *DeleteItemRequest) (*DeleteItemResponse, error) {
	affected, err := h.repository.DeleteItem(ctx, req.ItemID)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.destroy.failed",
			"Failed to delete item",
			nil,
		).Wrap(err)
	}

	if affected == 0 {
		metrics.ZeroRowMutations.WithLabelValues("delete").Inc()
		zap.L().Warn("Delete matched no item", zap.Int64("itemId", req.ItemID))
	}

	h.notifier.Notify(ctx, events.ItemDeletedEvent, req.ItemID, events.ItemDeletedPayload{
		ID:        req.ItemID,
		Matched:   affected > 0,
		DeletedAt: time.Now().UTC(),
	})

	return &DeleteItemResponse{
		Message: "Item deleted",
	}, nil
}
