package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
)

// CreateGuest inserts a new guest session row.
func (s *Store) CreateGuest(ctx context.Context, sessionToken string, expiresAt time.Time) (*domain.Guest, error) {
	var g domain.Guest
	err := s.db.QueryRow(ctx, `
		INSERT INTO guests (session_token, expires_at)
		VALUES ($1, $2)
		RETURNING id, session_token, expires_at, created_at`,
		sessionToken, expiresAt,
	).Scan(&g.ID, &g.SessionToken, &g.ExpiresAt, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	return &g, nil
}

// GetGuestByToken looks up a guest by its opaque session token.
// Expiry is the caller's concern; expired rows are returned as-is.
func (s *Store) GetGuestByToken(ctx context.Context, sessionToken string) (*domain.Guest, error) {
	var g domain.Guest
	err := s.db.QueryRow(ctx, `
		SELECT id, session_token, expires_at, created_at
		FROM guests
		WHERE session_token = $1`,
		sessionToken,
	).Scan(&g.ID, &g.SessionToken, &g.ExpiresAt, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGuestForUpdate locks the guest row for the duration of the enclosing
// transaction. The cart merge uses this as its single-use guard: a second
// concurrent merge blocks here and then finds the row gone.
func (s *Store) GetGuestForUpdate(ctx context.Context, guestID uuid.UUID) (*domain.Guest, error) {
	var g domain.Guest
	err := s.db.QueryRow(ctx, `
		SELECT id, session_token, expires_at, created_at
		FROM guests
		WHERE id = $1
		FOR UPDATE`,
		guestID,
	).Scan(&g.ID, &g.SessionToken, &g.ExpiresAt, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteGuest removes a guest row. Deleting an already-deleted guest is
// not an error.
func (s *Store) DeleteGuest(ctx context.Context, guestID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM guests WHERE id = $1`, guestID); err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}
	return nil
}
