package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solesphere/storefront/internal/auth"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/postgres"
)

// GuestTTL is how long a guest session stays valid after issuance.
const GuestTTL = 7 * 24 * time.Hour

// GuestService issues and resolves anonymous shopper identities.
type GuestService interface {
	// Create issues a fresh guest with an unpredictable session token.
	Create(ctx context.Context) (*domain.Guest, error)

	// GetByToken resolves a guest session token. An empty, unknown, or
	// expired token returns (nil, nil): "no guest" is a normal state,
	// never an error. Expired guests are not deleted here; deletion
	// happens only when the guest merges into a user.
	GetByToken(ctx context.Context, token string) (*domain.Guest, error)
}

type guestService struct {
	store Store
	now   func() time.Time
}

// NewGuestService creates a GuestService backed by the given store.
func NewGuestService(store Store) GuestService {
	return &guestService{
		store: store,
		now:   time.Now,
	}
}

func (s *guestService) Create(ctx context.Context) (*domain.Guest, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate guest token: %w", err)
	}

	guest, err := s.store.CreateGuest(ctx, token, s.now().Add(GuestTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	return guest, nil
}

func (s *guestService) GetByToken(ctx context.Context, token string) (*domain.Guest, error) {
	if token == "" {
		return nil, nil
	}

	guest, err := s.store.GetGuestByToken(ctx, token)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up guest: %w", err)
	}

	if guest.Expired(s.now()) {
		return nil, nil
	}

	return guest, nil
}
