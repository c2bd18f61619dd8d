package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/solesphere/storefront/internal/auth"
	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/postgres"
)

// SessionTTL is how long an authenticated session stays valid.
const SessionTTL = 30 * 24 * time.Hour

// SignUpParams are the inputs for account creation.
type SignUpParams struct {
	Email    string `validate:"required,email"`
	Name     string `validate:"required,max=100"`
	Password string `validate:"required,min=8"`

	// GuestID, when set, is the anonymous identity whose cart merges
	// into the new account before SignUp returns.
	GuestID *uuid.UUID
}

// SignInParams are the inputs for authentication.
type SignInParams struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`

	GuestID *uuid.UUID
}

// AuthService authenticates shoppers and manages their sessions. Guest
// cart merge runs synchronously inside SignUp and SignIn so a freshly
// signed-in user never sees an empty cart window.
type AuthService interface {
	SignUp(ctx context.Context, params SignUpParams) (*domain.User, *domain.Session, error)
	SignIn(ctx context.Context, params SignInParams) (*domain.User, *domain.Session, error)
	SignOut(ctx context.Context, token string) error

	// GetSessionUser resolves a session cookie token to its user.
	// An empty, unknown, or expired token returns (nil, nil).
	GetSessionUser(ctx context.Context, token string) (*domain.User, error)
}

type authService struct {
	store    Store
	carts    CartService
	validate *validator.Validate
}

// NewAuthService creates a new AuthService instance
func NewAuthService(store Store, carts CartService) AuthService {
	return &authService{
		store:    store,
		carts:    carts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *authService) SignUp(ctx context.Context, params SignUpParams) (*domain.User, *domain.Session, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.Name = strings.TrimSpace(params.Name)

	if err := validateParams(s.validate, "SignUp", params); err != nil {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, nil, domain.NewValidationError("SignUp", "password", "Password must be at least 8 characters")
		}
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, params.Email, params.Name, hash)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.startSession(ctx, user.ID, params.GuestID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *authService) SignIn(ctx context.Context, params SignInParams) (*domain.User, *domain.Session, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))

	if err := validateParams(s.validate, "SignIn", params); err != nil {
		return nil, nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Accounts created during guest fulfillment have no password yet.
	if user.PasswordHash == "" {
		return nil, nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to verify password: %w", err)
	}

	session, err := s.startSession(ctx, user.ID, params.GuestID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *authService) GetSessionUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.store.GetSessionByToken(ctx, token)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}
	return user, nil
}

// startSession issues an opaque session token and runs the guest cart
// merge before returning, so the merge completes before any response is
// written.
func (s *authService) startSession(ctx context.Context, userID uuid.UUID, guestID *uuid.UUID) (*domain.Session, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session, err := s.store.CreateSession(ctx, userID, token, time.Now().Add(SessionTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if guestID != nil {
		if err := s.carts.MergeGuestCart(ctx, *guestID, userID); err != nil {
			return nil, fmt.Errorf("failed to merge guest cart: %w", err)
		}
	}

	return session, nil
}

// validateParams maps validator failures onto field-level messages.
// validateParams runs struct validation and converts tag failures into
// field-level messages on a domain.ValidationError.
func validateParams(v *validator.Validate, op string, params any) error {
	err := v.Struct(params)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return fmt.Errorf("validation failed: %w", err)
	}

	fields := make(map[string]string, len(invalid))
	for _, fe := range invalid {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[field] = "This field is required"
		case "email":
			fields[field] = "Must be a valid email address"
		case "min":
			fields[field] = fmt.Sprintf("Must be at least %s characters", fe.Param())
		case "max":
			fields[field] = fmt.Sprintf("Must be at most %s characters", fe.Param())
		case "len":
			fields[field] = fmt.Sprintf("Must be exactly %s characters", fe.Param())
		case "oneof":
			fields[field] = fmt.Sprintf("Must be one of: %s", fe.Param())
		default:
			fields[field] = "Invalid value"
		}
	}
	return &domain.ValidationError{Op: op, Fields: fields}
}
