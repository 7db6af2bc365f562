package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"itemstore/app/item"
	"itemstore/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*PgRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewPgRepositoryFromDB(sqlx.NewDb(db, "postgres")), mock
}

var itemColumns = []string{"id", "name", "description", "created_at"}

func TestGetItems(t *testing.T) {
	repo, mock := setupMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, created_at FROM items ORDER BY id DESC")).
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow(2, "Pencil", "Graphite", now).
			AddRow(1, "Pen", "Blue pen", now))

	items, err := repo.GetItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, "Blue pen", items[1].Description)
}

func TestGetItems_Empty(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery("SELECT id, name, description, created_at FROM items").
		WillReturnRows(sqlmock.NewRows(itemColumns))

	items, err := repo.GetItems(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGetItems_Error(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery("SELECT id, name, description, created_at FROM items").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetItems(context.Background())
	assert.EqualError(t, err, "connection reset")
}

func TestCreate(t *testing.T) {
	repo, mock := setupMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO items (name, description)")).
		WithArgs("Pen", "Blue pen").
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(1, "Pen", "Blue pen", now))

	created, err := repo.Create(context.Background(), &item.CreateItemRequest{Name: "Pen", Description: "Blue pen"})
	require.NoError(t, err)
	assert.Equal(t, domain.Item{ID: 1, Name: "Pen", Description: "Blue pen", CreatedAt: now}, created)
}

func TestCreate_Error(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO items (name, description)")).
		WithArgs("Pen", "Blue pen").
		WillReturnError(errors.New("check constraint violated"))

	_, err := repo.Create(context.Background(), &item.CreateItemRequest{Name: "Pen", Description: "Blue pen"})
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET name = $1, description = $2 WHERE id = $3")).
		WithArgs("Pen", "Red pen", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Update(context.Background(), domain.Item{ID: 1, Name: "Pen", Description: "Red pen"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestUpdate_NoMatch(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET")).
		WithArgs("Pen", "Red pen", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Update(context.Background(), domain.Item{ID: 404, Name: "Pen", Description: "Red pen"})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestDeleteItem(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DeleteItem(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestDeleteItem_Error(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnError(errors.New("deadlock detected"))

	_, err := repo.DeleteItem(context.Background(), 1)
	assert.EqualError(t, err, "deadlock detected")
}

func TestMigrate(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS items")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
}
