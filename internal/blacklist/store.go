package blacklist

import (
	"context"

	"sentinel/internal/domain"
)

// Store persists entries. Insert must return an error matching ErrConflict
// when the email is already present and must not leave a partial row.
// FindByEmail returns (nil, nil) when no entry exists.
type Store interface {
	Insert(ctx context.Context, entry *domain.BlacklistEntry) error
	FindByEmail(ctx context.Context, email string) (*domain.BlacklistEntry, error)
}
