package v1_test

import (
	"context"

	"github.com/gosuda/orgd/internal/domain"
	"github.com/gosuda/orgd/internal/org"
)

// ---------------------------------------------------------------------------
// Mock OrgService
// ---------------------------------------------------------------------------

type mockOrgService struct {
	createFunc func(ctx context.Context, organizationName, email, password string) (*domain.Organization, error)
	getFunc    func(ctx context.Context, organizationName string) (*domain.Organization, error)
	updateFunc func(ctx context.Context, organizationName string, patch org.UpdatePatch) (*domain.Organization, error)
	deleteFunc func(ctx context.Context, organizationName, token string) error
}

func (m *mockOrgService) Create(ctx context.Context, organizationName, email, password string) (*domain.Organization, error) {
	return m.createFunc(ctx, organizationName, email, password)
}

func (m *mockOrgService) Get(ctx context.Context, organizationName string) (*domain.Organization, error) {
	return m.getFunc(ctx, organizationName)
}

func (m *mockOrgService) Update(ctx context.Context, organizationName string, patch org.UpdatePatch) (*domain.Organization, error) {
	return m.updateFunc(ctx, organizationName, patch)
}

func (m *mockOrgService) Delete(ctx context.Context, organizationName, token string) error {
	return m.deleteFunc(ctx, organizationName, token)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	loginFunc func(ctx context.Context, email, password string) (string, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return m.loginFunc(ctx, email, password)
}
