package v1

import (
	"context"

	"github.com/gosuda/orgd/internal/domain"
	"github.com/gosuda/orgd/internal/org"
)

// OrgService abstracts the lifecycle orchestrator for handler testing.
// *org.Service satisfies this interface.
type OrgService interface {
	Create(ctx context.Context, organizationName, email, password string) (*domain.Organization, error)
	Get(ctx context.Context, organizationName string) (*domain.Organization, error)
	Update(ctx context.Context, organizationName string, patch org.UpdatePatch) (*domain.Organization, error)
	Delete(ctx context.Context, organizationName, token string) error
}

// AuthService abstracts admin login for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}
