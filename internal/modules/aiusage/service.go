package aiusage

import (
	"context"
	"errors"
	"time"
)

// Service enforces the per-user monthly AI allowance.
type Service struct {
	store *Store
	quota int
	now   func() time.Time
}

// NewService creates a Service granting quota generations per month
// (DefaultTokens when quota <= 0).
func NewService(store *Store, quota int) *Service {
	if quota <= 0 {
		quota = DefaultTokens
	}
	return &Service{store: store, quota: quota, now: time.Now}
}

// UseToken deducts one generation from uid's allowance. A user without a row
// is initialised and charged in the same call.
func (s *Service) UseToken(ctx context.Context, uid string) error {
	month := currentMonth(s.now())
	err := s.store.UseToken(ctx, uid, s.quota, month)
	if !errors.Is(err, ErrInsufficientTokens) {
		return err
	}

	// Row may be missing: create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid, s.quota, month); initErr != nil {
		return initErr
	}
	return s.store.UseToken(ctx, uid, s.quota, month)
}

// Remaining reports how many generations uid has left this month.
func (s *Service) Remaining(ctx context.Context, uid string) (int, error) {
	return s.store.Remaining(ctx, uid, s.quota, currentMonth(s.now()))
}
