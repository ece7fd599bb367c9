package aiusage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles ai_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseToken atomically checks the monthly quota and deducts one generation.
// The counter resets to quota when last_reset_month is behind month.
// Returns ErrInsufficientTokens when no row is updated (quota exhausted or user absent).
func (s *Store) UseToken(ctx context.Context, uid string, quota int, month string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_usage SET
			tokens_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
	`, month, quota, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// EnsureUser inserts a row for uid with the full allowance, skipping existing rows.
func (s *Store) EnsureUser(ctx context.Context, uid string, quota int, month string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_usage (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, quota, month)
	return err
}

// Remaining reports the generations left for uid in month. Unknown users and
// stale months have the full quota.
func (s *Store) Remaining(ctx context.Context, uid string, quota int, month string) (int, error) {
	var (
		remaining int
		last      string
	)
	err := s.db.QueryRow(ctx, `SELECT tokens_remaining, last_reset_month FROM ai_usage WHERE uid = $1`, uid).Scan(&remaining, &last)
	if errors.Is(err, pgx.ErrNoRows) {
		return quota, nil
	}
	if err != nil {
		return 0, err
	}
	if last < month {
		return quota, nil
	}
	return remaining, nil
}

func currentMonth(now time.Time) string {
	return now.Format(monthLayout)
}
