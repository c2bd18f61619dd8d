package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/domain"
)

const addressColumns = `id, user_id, type, line1, COALESCE(line2, ''), city, state, country, postal_code, is_default`

// CreateAddress inserts an address for a user.
func (s *Store) CreateAddress(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	var a domain.Address
	err := s.db.QueryRow(ctx, `
		INSERT INTO addresses (user_id, type, line1, line2, city, state, country, postal_code, is_default)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)
		RETURNING `+addressColumns,
		addr.UserID, addr.Type, addr.Line1, addr.Line2, addr.City, addr.State,
		addr.Country, addr.PostalCode, addr.IsDefault,
	).Scan(addressFields(&a)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return &a, nil
}

// GetAddressByID retrieves an address by primary key.
func (s *Store) GetAddressByID(ctx context.Context, addressID uuid.UUID) (*domain.Address, error) {
	var a domain.Address
	err := s.db.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, addressID).
		Scan(addressFields(&a)...)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetDefaultAddress returns the user's default address of the given type,
// falling back to the most recently created one of that type.
func (s *Store) GetDefaultAddress(ctx context.Context, userID uuid.UUID, addrType domain.AddressType) (*domain.Address, error) {
	var a domain.Address
	err := s.db.QueryRow(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1 AND type = $2
		ORDER BY is_default DESC, id DESC
		LIMIT 1`,
		userID, addrType,
	).Scan(addressFields(&a)...)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAddresses returns every address on a user's account.
func (s *Store) ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1
		ORDER BY type, is_default DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(addressFields(&a)...); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func addressFields(a *domain.Address) []any {
	return []any{
		&a.ID, &a.UserID, &a.Type, &a.Line1, &a.Line2, &a.City, &a.State,
		&a.Country, &a.PostalCode, &a.IsDefault,
	}
}
