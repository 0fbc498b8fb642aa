package org_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gosuda/orgd/internal/auth"
	"github.com/gosuda/orgd/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock OrganizationRepository
// ---------------------------------------------------------------------------

type mockOrgRepo struct {
	createFunc     func(ctx context.Context, o *domain.Organization) error
	getByNameFunc  func(ctx context.Context, name string) (*domain.Organization, error)
	nameExistsFunc func(ctx context.Context, name string) (bool, error)
	updateFunc     func(ctx context.Context, o *domain.Organization) error
	deleteFunc     func(ctx context.Context, name string) error
}

func (m *mockOrgRepo) Create(ctx context.Context, o *domain.Organization) error {
	return m.createFunc(ctx, o)
}

func (m *mockOrgRepo) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	return m.getByNameFunc(ctx, name)
}

func (m *mockOrgRepo) NameExists(ctx context.Context, name string) (bool, error) {
	return m.nameExistsFunc(ctx, name)
}

func (m *mockOrgRepo) Update(ctx context.Context, o *domain.Organization) error {
	return m.updateFunc(ctx, o)
}

func (m *mockOrgRepo) Delete(ctx context.Context, name string) error {
	return m.deleteFunc(ctx, name)
}

// ---------------------------------------------------------------------------
// Mock AdminRepository
// ---------------------------------------------------------------------------

type mockAdminRepo struct {
	createFunc     func(ctx context.Context, a *domain.Admin) error
	getByEmailFunc func(ctx context.Context, email string) (*domain.Admin, error)
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	updateFunc     func(ctx context.Context, a *domain.Admin) error
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockAdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	return m.createFunc(ctx, a)
}

func (m *mockAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockAdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockAdminRepo) Update(ctx context.Context, a *domain.Admin) error {
	return m.updateFunc(ctx, a)
}

func (m *mockAdminRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Fake CollectionManager — in-memory set of collections
// ---------------------------------------------------------------------------

type fakeCollections struct {
	collections map[string]bool
	calls       []string

	createErr error
	renameErr error
	dropErr   error
}

func newFakeCollections(existing ...string) *fakeCollections {
	f := &fakeCollections{collections: map[string]bool{}}
	for _, c := range existing {
		f.collections[c] = true
	}
	return f
}

func (f *fakeCollections) Create(_ context.Context, collection string) error {
	f.calls = append(f.calls, "create "+collection)
	if f.createErr != nil {
		return f.createErr
	}
	if f.collections[collection] {
		return domain.ErrCollectionExists
	}
	f.collections[collection] = true
	return nil
}

func (f *fakeCollections) Rename(_ context.Context, oldName, newName string) error {
	f.calls = append(f.calls, fmt.Sprintf("rename %s -> %s", oldName, newName))
	if f.renameErr != nil {
		return f.renameErr
	}
	if !f.collections[oldName] {
		return domain.ErrCollectionNotFound
	}
	if f.collections[newName] {
		return domain.ErrCollectionExists
	}
	delete(f.collections, oldName)
	f.collections[newName] = true
	return nil
}

func (f *fakeCollections) Drop(_ context.Context, collection string) error {
	f.calls = append(f.calls, "drop "+collection)
	if f.dropErr != nil {
		return f.dropErr
	}
	if !f.collections[collection] {
		return domain.ErrCollectionNotFound
	}
	delete(f.collections, collection)
	return nil
}

// ---------------------------------------------------------------------------
// No-op NameLocker
// ---------------------------------------------------------------------------

type noopLocker struct {
	acquired []string
}

func (l *noopLocker) Acquire(_ context.Context, name string) (func(), error) {
	l.acquired = append(l.acquired, name)
	return func() {}, nil
}

// ---------------------------------------------------------------------------
// Token validator backed by real JWT code
// ---------------------------------------------------------------------------

const testSecret = "org-service-test-secret-32-chars-ok!"

type jwtValidator struct{}

func (jwtValidator) Validate(token string) (*auth.Claims, error) {
	return auth.ValidateToken(testSecret, token)
}
