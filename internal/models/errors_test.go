package models

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := NewValidationError("text too long")
		assert.Equal(t, "text too long", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewInternalError(cause)
		assert.Contains(t, err.Error(), "connection reset")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("not found includes resource and id", func(t *testing.T) {
		err := NewNotFoundError("user", 42)
		assert.Equal(t, "user with ID 42 not found", err.Error())
	})
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(NewConflictError("already following"), CodeConflict))
	assert.False(t, HasCode(NewConflictError("already following"), CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
	assert.False(t, HasCode(nil, CodeConflict))

	// Matches through wrapping.
	wrapped := fmt.Errorf("follow: %w", NewConflictError("already following"))
	assert.True(t, HasCode(wrapped, CodeConflict))
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad input"), fiber.StatusBadRequest},
		{"conflict", NewConflictError("duplicate"), fiber.StatusConflict},
		{"not found", NewNotFoundError("user", 1), fiber.StatusNotFound},
		{"unauthorized", NewUnauthorizedError("invalid credentials"), fiber.StatusUnauthorized},
		{"integrity fault", NewIntegrityFaultError("unfollow removed 2 rows"), fiber.StatusInternalServerError},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}

func TestRespondWithError_HidesInternalDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError,
			NewInternalError(errors.New("password hash mismatch at row 3")))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Internal server error")
	assert.NotContains(t, string(data), "password hash mismatch")
}
