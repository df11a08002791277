package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/darcyapp/darcy-server/internal/errors"
)

type shelveRequest struct {
	BookID string `json:"bookId" validate:"required"`
	Shelf  string `json:"shelf"  validate:"required,shelf"`
}

func TestValidate(t *testing.T) {
	v := New()

	t.Run("valid request passes", func(t *testing.T) {
		err := v.Validate(&shelveRequest{BookID: "b1", Shelf: "wantToRead"})
		assert.NoError(t, err)
	})

	t.Run("missing field reported by json name", func(t *testing.T) {
		err := v.Validate(&shelveRequest{Shelf: "wantToRead"})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

		var appErr *apperrors.Error
		require.True(t, apperrors.As(err, &appErr))
		details, ok := appErr.Details.(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "is required", details["bookId"])
	})

	t.Run("unknown shelf rejected", func(t *testing.T) {
		err := v.Validate(&shelveRequest{BookID: "b1", Shelf: "archived"})
		require.Error(t, err)

		var appErr *apperrors.Error
		require.True(t, apperrors.As(err, &appErr))
		details, ok := appErr.Details.(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "must be a valid shelf", details["shelf"])
	})
}
