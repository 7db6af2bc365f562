package item

import (
	"context"

	"itemstore/domain"
)

// Repository is the store port. Update and DeleteItem report the number of
// affected rows; zero is not an error.
type Repository interface {
	Close() error
	Ping(ctx context.Context) error
	GetItems(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, req *CreateItemRequest) (domain.Item, error)
	Update(ctx context.Context, item domain.Item) (int64, error)
	DeleteItem(ctx context.Context, id int64) (int64, error)
}
