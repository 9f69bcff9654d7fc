package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"helpdesk/api/internal/ids"
	"helpdesk/api/internal/models"
	"helpdesk/api/internal/repository"
	"helpdesk/api/internal/security"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

type AccountService struct {
	accounts AccountStore
	log      zerolog.Logger
}

func NewAccountService(accounts AccountStore, log zerolog.Logger) *AccountService {
	return &AccountService{accounts: accounts, log: log}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates an account with the role the endpoint dictates. Email
// comparison is case-sensitive; the store's unique constraint is the only
// duplicate check.
func (s *AccountService) Register(ctx context.Context, input RegisterInput, role models.Role) (models.Account, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" {
		return models.Account{}, ErrEmailRequired
	}
	if len(input.Password) < 8 {
		return models.Account{}, ErrPasswordTooShort
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		Active:       true,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return models.Account{}, err
	}

	s.log.Info().Str("account_id", account.ID).Str("role", string(role)).Msg("account registered")
	return account, nil
}

// ListByRole validates the role string against the closed set before
// touching the store.
func (s *AccountService) ListByRole(ctx context.Context, roleStr string) ([]models.Account, error) {
	role, err := models.ParseRole(roleStr)
	if err != nil {
		return nil, err
	}
	return s.accounts.ListByRole(ctx, role)
}

func (s *AccountService) Get(ctx context.Context, id string) (models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

type UpdateAccountInput struct {
	FirstName *string
	LastName  *string
	Role      *string
	Active    *bool
}

// Update applies a partial profile update. Password and email never pass
// through this path regardless of what the caller submitted; role changes
// are honored only for admin callers.
func (s *AccountService) Update(ctx context.Context, id string, input UpdateAccountInput, callerIsAdmin bool) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return models.Account{}, err
	}

	if input.FirstName != nil {
		account.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		account.LastName = *input.LastName
	}
	if input.Role != nil && callerIsAdmin {
		role, err := models.ParseRole(*input.Role)
		if err != nil {
			return models.Account{}, err
		}
		account.Role = role
	}
	if input.Active != nil && callerIsAdmin {
		account.Active = *input.Active
	}

	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return models.Account{}, err
	}
	return account, nil
}

// IsStaff reports whether the referenced account exists and holds the staff
// role. Used by the category contact-person check.
func (s *AccountService) IsStaff(ctx context.Context, id string) (bool, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.Role == models.RoleStaff, nil
}
