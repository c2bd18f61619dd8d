package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/postgres"
)

// CreateAddressParams holds validated input for adding an address to a
// user's address book.
type CreateAddressParams struct {
	Type       domain.AddressType `json:"type" validate:"required,oneof=shipping billing"`
	Line1      string             `json:"line1" validate:"required,max=200"`
	Line2      string             `json:"line2" validate:"max=200"`
	City       string             `json:"city" validate:"required,max=100"`
	State      string             `json:"state" validate:"max=100"`
	Country    string             `json:"country" validate:"required,len=2"`
	PostalCode string             `json:"postal_code" validate:"required,max=20"`
	IsDefault  bool               `json:"is_default"`
}

// AccountService covers the signed-in account surface: the address book
// and order history lookups.
type AccountService interface {
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, params CreateAddressParams) (*domain.Address, error)

	// GetOrder returns the order only when it belongs to userID.
	// Someone else's order looks identical to a missing one.
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDetail, error)
}

type accountService struct {
	store    Store
	validate *validator.Validate
}

// NewAccountService creates a new AccountService instance
func NewAccountService(store Store) AccountService {
	return &accountService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *accountService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	return s.store.ListAddresses(ctx, userID)
}

func (s *accountService) CreateAddress(ctx context.Context, userID uuid.UUID, params CreateAddressParams) (*domain.Address, error) {
	if err := validateParams(s.validate, "account.address", params); err != nil {
		return nil, err
	}

	return s.store.CreateAddress(ctx, domain.Address{
		UserID:     userID,
		Type:       params.Type,
		Line1:      params.Line1,
		Line2:      params.Line2,
		City:       params.City,
		State:      params.State,
		Country:    params.Country,
		PostalCode: params.PostalCode,
		IsDefault:  params.IsDefault,
	})
}

func (s *accountService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDetail, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, domain.Internal(err, "account.order", "failed to load order")
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	items, err := s.store.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, domain.Internal(err, "account.order", "failed to load order items")
	}

	return &domain.OrderDetail{Order: *order, Items: items}, nil
}
