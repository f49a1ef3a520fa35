package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"sentinel/internal/blacklist"
	"sentinel/internal/domain"
)

const (
	defaultQueryTimeout = 5 * time.Second

	pgUniqueViolation = "23505"
)

// EntryStore persists blacklist entries through gorm. Uniqueness of email is
// enforced by the idx_blacklist_email index, not by application locking.
type EntryStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewEntryStore(db *gorm.DB, timeout time.Duration) *EntryStore {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &EntryStore{db: db, timeout: timeout}
}

func (s *EntryStore) Insert(ctx context.Context, entry *domain.BlacklistEntry) error {
	if entry == nil {
		return errors.New("database: nil blacklist entry")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Create(entry).Error
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("database: insert blacklist entry: %w", blacklist.ErrConflict)
	default:
		return fmt.Errorf("%w: insert blacklist entry: %w", blacklist.ErrUnavailable, err)
	}
}

// FindByEmail performs an exact, case-sensitive lookup. A missing entry is
// reported as (nil, nil).
func (s *EntryStore) FindByEmail(ctx context.Context, email string) (*domain.BlacklistEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var entry domain.BlacklistEntry
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find blacklist entry: %w", blacklist.ErrUnavailable, err)
	}
	return &entry, nil
}

func (s *EntryStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: get sql.DB: %w", blacklist.ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", blacklist.ErrUnavailable, err)
	}
	return nil
}

func (s *EntryStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
