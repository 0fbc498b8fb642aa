package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/orgd/internal/api/v1"
	"github.com/gosuda/orgd/internal/auth"
)

func TestAdminLogin(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, email, password string) (string, error) {
				assert.Equal(t, "a@x.com", email)
				assert.Equal(t, "pw1-very-secret", password)
				return "signed.jwt.token", nil
			},
		}

		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/admin/login", map[string]any{
			"email":    "a@x.com",
			"password": "pw1-very-secret",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "signed.jwt.token", body["access_token"])
		assert.Equal(t, "bearer", body["token_type"])
	})

	t.Run("bad_credentials_unauthorized", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockAuthService{
			loginFunc: func(_ context.Context, _, _ string) (string, error) {
				return "", auth.ErrInvalidCredentials
			},
		}

		v1.RegisterAuthRoutes(api, svc)

		resp := api.Post("/admin/login", map[string]any{
			"email":    "a@x.com",
			"password": "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
