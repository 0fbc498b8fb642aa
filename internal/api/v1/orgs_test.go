package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/orgd/internal/api/v1"
	"github.com/gosuda/orgd/internal/domain"
	"github.com/gosuda/orgd/internal/org"
)

func fixedOrg() *domain.Organization {
	return &domain.Organization{
		ID:             uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		Name:           "acmecorp",
		CollectionName: "org_acmecorp",
		AdminID:        uuid.MustParse("00000000-0000-0000-0000-0000000000aa"),
	}
}

// ---------------------------------------------------------------------------
// POST /org/create
// ---------------------------------------------------------------------------

func TestCreateOrg(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			createFunc: func(_ context.Context, name, email, password string) (*domain.Organization, error) {
				assert.Equal(t, "AcmeCorp", name)
				assert.Equal(t, "a@x.com", email)
				assert.Equal(t, "pw1-very-secret", password)
				return fixedOrg(), nil
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Post("/org/create", map[string]any{
			"organization_name": "AcmeCorp",
			"email":             "a@x.com",
			"password":          "pw1-very-secret",
		})

		require.Equal(t, http.StatusCreated, resp.Code)

		var body v1.OrgBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "acmecorp", body.OrganizationName)
		assert.Equal(t, "org_acmecorp", body.CollectionName)
		assert.Equal(t, "00000000-0000-0000-0000-0000000000aa", body.AdminID)
	})

	t.Run("duplicate_conflict", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			createFunc: func(_ context.Context, _, _, _ string) (*domain.Organization, error) {
				return nil, domain.ErrDuplicateName
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Post("/org/create", map[string]any{
			"organization_name": "AcmeCorp",
			"email":             "a@x.com",
			"password":          "pw1-very-secret",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("invalid_input_unprocessable", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			createFunc: func(_ context.Context, _, _, _ string) (*domain.Organization, error) {
				return nil, domain.ErrInvalidInput
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Post("/org/create", map[string]any{
			"organization_name": "   ",
			"email":             "a@x.com",
			"password":          "pw1-very-secret",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("partial_failure_reports_detail", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			createFunc: func(_ context.Context, _, _, _ string) (*domain.Organization, error) {
				return nil, &domain.PartialFailureError{
					Op:              "org.Create",
					Completed:       []string{"create collection"},
					Err:             errors.New("pg: insert failed"),
					CompensationErr: errors.New("tenant db unreachable"),
				}
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Post("/org/create", map[string]any{
			"organization_name": "AcmeCorp",
			"email":             "a@x.com",
			"password":          "pw1-very-secret",
		})

		assert.Equal(t, http.StatusInternalServerError, resp.Code)

		var errBody map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
		detail, _ := errBody["detail"].(string)
		assert.Contains(t, detail, "create collection", "completed steps must reach the operator")
		assert.Contains(t, detail, "manual cleanup", "failed compensation must reach the operator")
	})
}

// ---------------------------------------------------------------------------
// GET /org/get
// ---------------------------------------------------------------------------

func TestGetOrg(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			getFunc: func(_ context.Context, name string) (*domain.Organization, error) {
				assert.Equal(t, "acmecorp", name)
				return fixedOrg(), nil
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Get("/org/get?organization_name=acmecorp")

		require.Equal(t, http.StatusOK, resp.Code)

		var body v1.OrgBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "acmecorp", body.OrganizationName)
		assert.Equal(t, "org_acmecorp", body.CollectionName)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			getFunc: func(_ context.Context, _ string) (*domain.Organization, error) {
				return nil, domain.ErrNotFound
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Get("/org/get?organization_name=ghost")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// PUT /org/update
// ---------------------------------------------------------------------------

func TestUpdateOrg(t *testing.T) {
	t.Parallel()

	t.Run("rename", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			updateFunc: func(_ context.Context, name string, patch org.UpdatePatch) (*domain.Organization, error) {
				assert.Equal(t, "acmecorp", name)
				assert.Equal(t, "acme-2", patch.NewName)
				renamed := fixedOrg()
				renamed.Name = "acme-2"
				renamed.CollectionName = "org_acme-2"
				return renamed, nil
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Put("/org/update", map[string]any{
			"organization_name":     "acmecorp",
			"new_organization_name": "acme-2",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body v1.OrgBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "acme-2", body.OrganizationName)
		assert.Equal(t, "org_acme-2", body.CollectionName)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			updateFunc: func(_ context.Context, _ string, _ org.UpdatePatch) (*domain.Organization, error) {
				return nil, domain.ErrNotFound
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Put("/org/update", map[string]any{
			"organization_name": "ghost",
			"email":             "new@x.com",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("new_name_taken_conflict", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			updateFunc: func(_ context.Context, _ string, _ org.UpdatePatch) (*domain.Organization, error) {
				return nil, domain.ErrDuplicateName
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Put("/org/update", map[string]any{
			"organization_name":     "acmecorp",
			"new_organization_name": "taken",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// DELETE /org/delete
// ---------------------------------------------------------------------------

func TestDeleteOrg(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			deleteFunc: func(_ context.Context, name, token string) error {
				assert.Equal(t, "acmecorp", name)
				assert.Equal(t, "valid-token", token)
				return nil
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Delete("/org/delete?organization_name=acmecorp",
			"Authorization: Bearer valid-token")

		require.Equal(t, http.StatusOK, resp.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "deleted", body["status"])
	})

	t.Run("missing_token_unauthorized", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			deleteFunc: func(_ context.Context, _, _ string) error {
				t.Fatal("service must not be called without a bearer token")
				return nil
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Delete("/org/delete?organization_name=acmecorp")

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("invalid_token_unauthorized", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			deleteFunc: func(_ context.Context, _, _ string) error {
				return domain.ErrUnauthorized
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Delete("/org/delete?organization_name=acmecorp",
			"Authorization: Bearer expired-token")

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("foreign_org_forbidden", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			deleteFunc: func(_ context.Context, _, _ string) error {
				return domain.ErrForbidden
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Delete("/org/delete?organization_name=acmecorp",
			"Authorization: Bearer other-org-token")

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockOrgService{
			deleteFunc: func(_ context.Context, _, _ string) error {
				return domain.ErrNotFound
			},
		}

		v1.RegisterOrgRoutes(api, svc)

		resp := api.Delete("/org/delete?organization_name=ghost",
			"Authorization: Bearer valid-token")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
