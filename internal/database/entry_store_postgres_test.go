package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sentinel/internal/blacklist"
)

func setupPostgresMock(t *testing.T) (*EntryStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := SetupDB(
		WithDialector(postgres.New(postgres.Config{Conn: sqlDB})),
		WithAutoMigrate(false),
	)
	require.NoError(t, err)

	return NewEntryStore(db, time.Second), mock
}

func TestPostgresUniqueViolationIsConflict(t *testing.T) {
	store, mock := setupPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "blacklist"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"idx_blacklist_email\""})
	mock.ExpectRollback()

	err := store.Insert(context.Background(), newEntry("dup@x.com", "app"))
	assert.ErrorIs(t, err, blacklist.ErrConflict)
	assert.NotErrorIs(t, err, blacklist.ErrUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertFailureIsUnavailable(t *testing.T) {
	store, mock := setupPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "blacklist"`)).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	err := store.Insert(context.Background(), newEntry("a@x.com", "app"))
	assert.ErrorIs(t, err, blacklist.ErrUnavailable)
	assert.NotErrorIs(t, err, blacklist.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertSuccess(t *testing.T) {
	store, mock := setupPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "blacklist"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	entry := newEntry("a@x.com", "app")
	require.NoError(t, store.Insert(context.Background(), entry))
	assert.Equal(t, uint(7), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindFailureIsUnavailable(t *testing.T) {
	store, mock := setupPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "blacklist"`)).
		WillReturnError(errors.New("server closed the connection unexpectedly"))

	found, err := store.FindByEmail(context.Background(), "a@x.com")
	assert.Nil(t, found)
	assert.ErrorIs(t, err, blacklist.ErrUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindMissing(t *testing.T) {
	store, mock := setupPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "blacklist"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "app_uuid", "blocked_reason", "ip", "created_at"}))

	found, err := store.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: blacklist.email")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}
