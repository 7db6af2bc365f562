// Package memory is an in-process item store for local runs and tests.
// Ids come from a monotonic counter and are never reused.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"itemstore/app/item"
	"itemstore/domain"
)

type Repository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Item
	nextID int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		items:  make(map[int64]domain.Item),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *Repository) Close() error {
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *Repository) GetItems(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Item, 0, len(r.items))
	for _, i := range r.items {
		items = append(items, i)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID > items[b].ID })

	return items, nil
}

func (r *Repository) Create(ctx context.Context, req *item.CreateItemRequest) (domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return domain.Item{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := domain.Item{
		ID:          r.nextID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   r.now(),
	}
	r.items[i.ID] = i
	r.nextID++

	return i, nil
}

func (r *Repository) Update(ctx context.Context, i domain.Item) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[i.ID]
	if !ok {
		return 0, nil
	}
	existing.Name = i.Name
	existing.Description = i.Description
	r.items[i.ID] = existing

	return 1, nil
}

func (r *Repository) DeleteItem(ctx context.Context, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)

	return 1, nil
}
