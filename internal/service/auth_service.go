package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"helpdesk/api/internal/config"
	"helpdesk/api/internal/models"
	"helpdesk/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService struct {
	accounts  AccountStore
	blacklist TokenBlacklist
	cfg       *config.AppConfig
	log       zerolog.Logger
}

func NewAuthService(accounts AccountStore, blacklist TokenBlacklist, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		accounts:  accounts,
		blacklist: blacklist,
		cfg:       cfg,
		log:       log,
	}
}

type TokenPair struct {
	Access  string
	Refresh string
}

// Authenticate verifies the credentials against the store. An unknown email
// and a wrong password fail identically.
func (s *AuthService) Authenticate(ctx context.Context, email string, password string) (models.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return models.Account{}, ErrInvalidCredentials
	}
	if !account.Active {
		return models.Account{}, ErrInvalidCredentials
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil || !ok {
		return models.Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func (s *AuthService) IssueTokenPair(account models.Account) (TokenPair, error) {
	access, err := security.GenerateAccessToken(
		s.cfg.Auth.AccessSecret,
		account.ID,
		account.Email,
		string(account.Role),
		s.cfg.Auth.AccessTTL,
	)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := security.GenerateRefreshToken(
		s.cfg.Auth.RefreshSecret,
		account.Email,
		s.cfg.Auth.RefreshTTL,
	)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (TokenPair, models.Account, error) {
	account, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return TokenPair{}, models.Account{}, err
	}

	pair, err := s.IssueTokenPair(account)
	if err != nil {
		return TokenPair{}, models.Account{}, err
	}
	return pair, account, nil
}

// RefreshAccess mints a new access token from a valid refresh token. The
// refresh token is not rotated. All validation failures collapse into
// ErrInvalidToken; the precise reason stays in the log.
func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	account, err := s.accounts.FindByEmail(ctx, claims.Subject)
	if err != nil || !account.Active {
		return "", ErrInvalidToken
	}

	access, err := security.GenerateAccessToken(
		s.cfg.Auth.AccessSecret,
		account.ID,
		account.Email,
		string(account.Role),
		s.cfg.Auth.AccessTTL,
	)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// Revoke blacklists the refresh token's jti until its natural expiry. A
// malformed, expired or already-revoked token reports ErrInvalidToken; the
// store-level add itself stays idempotent.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := s.blacklist.Add(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) validateRefresh(ctx context.Context, refreshToken string) (*security.RefreshClaims, error) {
	claims, err := security.ParseRefreshToken(refreshToken, s.cfg.Auth.RefreshSecret)
	if err != nil {
		s.log.Debug().Err(err).Msg("refresh token rejected")
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("blacklist lookup: %w", err)
	}
	if revoked {
		s.log.Debug().Str("jti", claims.ID).Msg("refresh token blacklisted")
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAccess checks the access token and resolves the account it names.
// Used by both the HTTP middleware and the websocket handshake.
func (s *AuthService) ValidateAccess(ctx context.Context, accessToken string) (models.Account, *security.AccessClaims, error) {
	claims, err := security.ParseAccessToken(accessToken, s.cfg.Auth.AccessSecret)
	if err != nil {
		return models.Account{}, nil, ErrInvalidToken
	}

	account, err := s.accounts.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return models.Account{}, nil, ErrInvalidToken
	}
	if !account.Active {
		return models.Account{}, nil, ErrInvalidToken
	}
	return account, claims, nil
}
