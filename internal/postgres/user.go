package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
)

const userColumns = `id, email, COALESCE(name, ''), COALESCE(password_hash, ''), created_at`

// CreateUser inserts a user. The unique index on email is the backstop
// against duplicate accounts; callers that can race should use
// FindOrCreateUserByEmail instead.
func (s *Store) CreateUser(ctx context.Context, email, name, passwordHash string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		RETURNING `+userColumns,
		email, name, passwordHash,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID retrieves a user by primary key.
func (s *Store) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindOrCreateUserByEmail returns the user with the given email, creating
// a passwordless account if none exists. ON CONFLICT DO NOTHING plus a
// re-read makes the operation safe under concurrent fulfillments for the
// same email.
func (s *Store) FindOrCreateUserByEmail(ctx context.Context, email, name string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (email, name)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (email) DO NOTHING
		RETURNING `+userColumns,
		email, name,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err == nil {
		return &u, nil
	}
	if !IsNotFound(err) {
		return nil, fmt.Errorf("failed to find or create user: %w", err)
	}
	// Conflict path: the row already existed, fetch it.
	return s.GetUserByEmail(ctx, email)
}

// CreateSession inserts an authenticated browser session.
func (s *Store) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.QueryRow(ctx, `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, token, expires_at, created_at`,
		userID, token, expiresAt,
	).Scan(&sess.ID, &sess.UserID, &sess.Token, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &sess, nil
}

// GetSessionByToken retrieves a live session by its opaque token.
// Expired sessions are filtered out at the query level.
func (s *Store) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions
		WHERE token = $1 AND expires_at > now()`,
		token,
	).Scan(&sess.ID, &sess.UserID, &sess.Token, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session (sign-out).
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
