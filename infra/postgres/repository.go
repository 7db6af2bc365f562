package postgres

import (
	"context"
	"fmt"
	"time"

	"itemstore/app/item"
	"itemstore/domain"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(dsn string) (*PgRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}, nil
}

// NewPgRepositoryFromDB wraps an existing handle, e.g. one opened by a test.
func NewPgRepositoryFromDB(db *sqlx.DB) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PgRepository) GetPoolStats() map[string]any {
	stats := r.db.Stats()
	return map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

func (r *PgRepository) GetItems(ctx context.Context) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	query := `SELECT id, name, description, created_at FROM items ORDER BY id DESC`

	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PgRepository) Create(ctx context.Context, req *item.CreateItemRequest) (domain.Item, error) {
	var i domain.Item
	query := `
		INSERT INTO items (name, description)
		VALUES (:name, :description)
		RETURNING id, name, description, created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, req)
	if err != nil {
		return i, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return i, err
		}
		return i, fmt.Errorf("insert returned no row")
	}

	err = rows.StructScan(&i)
	return i, err
}

func (r *PgRepository) Update(ctx context.Context, i domain.Item) (int64, error) {
	query := `UPDATE items SET name = :name, description = :description WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, i)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *PgRepository) DeleteItem(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM items WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
