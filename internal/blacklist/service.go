package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"sentinel/internal/domain"
	"sentinel/internal/support"
)

// maxOriginLength matches the width of the ip column. Longer origins are
// treated as unresolved.
const maxOriginLength = 45

// AddEntryInput is the candidate for a new entry.
type AddEntryInput struct {
	Email         string `json:"email" validate:"min=1,max=255,email"`
	AppID         string `json:"app_uuid" validate:"min=1,max=36"`
	BlockedReason string `json:"blocked_reason" validate:"min=1,max=1000"`
}

type AddResult struct {
	Email         string
	AppID         string
	BlockedReason string
	OriginIP      string
	CreatedAt     time.Time
}

// CheckResult describes a lookup. Only Email is meaningful when Blacklisted
// is false.
type CheckResult struct {
	Blacklisted   bool
	Email         string
	AppID         string
	BlockedReason string
	CreatedAt     time.Time
}

// Service admits emails into the blacklist and answers membership queries.
// It keeps no cache; every call reads through to the Store.
type Service struct {
	store Store
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddEntry registers a new email. The client origin is read from ctx when
// present. A duplicate email yields a *ConflictError and leaves the stored
// entry untouched.
func (s *Service) AddEntry(ctx context.Context, in AddEntryInput) (*AddResult, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	entry := &domain.BlacklistEntry{
		Email:         in.Email,
		AppID:         in.AppID,
		BlockedReason: in.BlockedReason,
		CreatedAt:     s.now().UTC().Truncate(time.Microsecond),
	}
	if origin, ok := support.ClientOriginFrom(ctx); ok && len(origin) <= maxOriginLength {
		entry.IP = &origin
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		if errors.Is(err, ErrConflict) {
			log.Warn("Blacklist entry already exists", "email", support.RedactEmail(in.Email), "app_uuid", in.AppID)
			return nil, &ConflictError{Email: in.Email}
		}
		log.Error("Failed to add blacklist entry", "email", support.RedactEmail(in.Email), "error", err)
		return nil, fmt.Errorf("add blacklist entry: %w", err)
	}

	log.Info("Blacklist entry added",
		"email", support.RedactEmail(entry.Email),
		"app_uuid", entry.AppID,
		"origin", entry.OriginIP())

	return &AddResult{
		Email:         entry.Email,
		AppID:         entry.AppID,
		BlockedReason: entry.BlockedReason,
		OriginIP:      entry.OriginIP(),
		CreatedAt:     entry.CreatedAt,
	}, nil
}

// CheckEntry reports whether email is blacklisted. The lookup is exact;
// casing is not normalised.
func (s *Service) CheckEntry(ctx context.Context, email string) (*CheckResult, error) {
	if !validEmailShape(email) {
		return nil, &ValidationError{Message: "Invalid email format"}
	}

	entry, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		log.Error("Failed to check blacklist entry", "email", support.RedactEmail(email), "error", err)
		return nil, fmt.Errorf("check blacklist entry: %w", err)
	}

	if entry == nil {
		log.Debug("Email not blacklisted", "email", support.RedactEmail(email))
		return &CheckResult{Blacklisted: false, Email: email}, nil
	}

	log.Debug("Email blacklisted", "email", support.RedactEmail(email), "app_uuid", entry.AppID)
	return &CheckResult{
		Blacklisted:   true,
		Email:         entry.Email,
		AppID:         entry.AppID,
		BlockedReason: entry.BlockedReason,
		CreatedAt:     entry.CreatedAt,
	}, nil
}
