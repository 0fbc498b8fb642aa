package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/orgd/internal/domain"
)

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "AcmeCorp", want: "acmecorp"},
		{in: "  AcmeCorp  ", want: "acmecorp"},
		{in: "acme-2", want: "acme-2"},
		{in: "", want: ""},
		{in: "   ", want: ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, domain.CanonicalName(tc.in))
	}
}

func TestPartialFailureError(t *testing.T) {
	t.Parallel()

	cause := errors.New("pg: insert failed")

	t.Run("matches sentinel and cause", func(t *testing.T) {
		t.Parallel()

		err := error(&domain.PartialFailureError{
			Op:        "org.Create",
			Completed: []string{"create collection"},
			Err:       cause,
		})

		assert.ErrorIs(t, err, domain.ErrPartialFailure)
		assert.ErrorIs(t, err, cause)

		var partial *domain.PartialFailureError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, []string{"create collection"}, partial.Completed)
	})

	t.Run("message names completed steps", func(t *testing.T) {
		t.Parallel()

		err := &domain.PartialFailureError{
			Op:        "org.Delete",
			Completed: []string{"drop collection", "delete admin"},
			Err:       cause,
		}

		assert.Contains(t, err.Error(), "drop collection, delete admin")
		assert.NotContains(t, err.Error(), "manual cleanup")
	})

	t.Run("failed compensation is called out", func(t *testing.T) {
		t.Parallel()

		err := &domain.PartialFailureError{
			Op:              "org.Create",
			Completed:       []string{"create collection"},
			Err:             cause,
			CompensationErr: errors.New("tenant db unreachable"),
		}

		assert.Contains(t, err.Error(), "manual cleanup required")
		assert.Contains(t, err.Error(), "tenant db unreachable")
	})
}
