package postgres

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(255) NOT NULL CHECK (name <> ''),
		description TEXT NOT NULL CHECK (description <> ''),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the items table when it does not exist yet.
func (r *PgRepository) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}

	return nil
}
