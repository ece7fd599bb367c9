package plan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists plans as versioned JSON payloads keyed by an opaque id.
type Store struct {
	db  *pgxpool.Pool
	loc *time.Location
}

// NewStore returns a Store that reads block times back in loc.
func NewStore(db *pgxpool.Pool, loc *time.Location) *Store {
	return &Store{db: db, loc: loc}
}

// Save inserts r owned by ownerUID (empty for anonymous callers).
func (s *Store) Save(ctx context.Context, ownerUID string, r PlanResult) error {
	payload, err := Encode(r)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO plans (id, owner_uid, destination, source, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.ID, nullIfEmpty(ownerUID), r.Destination, string(r.Source), payload, r.CreatedAt)
	return err
}

// Update overwrites the payload of an existing plan.
func (s *Store) Update(ctx context.Context, r PlanResult) error {
	payload, err := Encode(r)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE plans SET payload = $2, updated_at = NOW() WHERE id = $1
	`, r.ID, payload)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads a plan and its owner uid.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (PlanResult, string, error) {
	var (
		payload []byte
		owner   *string
	)
	err := s.db.QueryRow(ctx, `SELECT payload, owner_uid FROM plans WHERE id = $1`, id).Scan(&payload, &owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return PlanResult{}, "", ErrNotFound
	}
	if err != nil {
		return PlanResult{}, "", err
	}
	r, err := Decode(payload, s.loc)
	if err != nil {
		return PlanResult{}, "", err
	}
	if owner == nil {
		return r, "", nil
	}
	return r, *owner, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
