package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gosuda/orgd/internal/domain"
)

// ErrInvalidCredentials is returned on login when the email is unknown or
// the password does not match. The two cases are deliberately collapsed.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Service issues and validates access tokens for organization admins.
type Service struct {
	admins    domain.AdminRepository
	jwtSecret string
	accessTTL time.Duration
}

func NewService(admins domain.AdminRepository, jwtSecret string, accessTTL time.Duration) *Service {
	return &Service{
		admins:    admins,
		jwtSecret: jwtSecret,
		accessTTL: accessTTL,
	}
}

// Login validates email/password and returns a signed access token scoped to
// the admin's organization.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
		}
		return "", fmt.Errorf("auth.Login: %w", err)
	}

	ok, err := VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("auth.Login: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	token, err := IssueToken(s.jwtSecret, admin.ID, admin.OrganizationID, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.Login: %w", err)
	}

	return token, nil
}

// Validate checks a bearer token and returns its claims.
func (s *Service) Validate(token string) (*Claims, error) {
	return ValidateToken(s.jwtSecret, token)
}
