package apperror_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lshigami/examhub/internal/apperror"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", apperror.NotFound("exam %d not found", 1), http.StatusNotFound},
		{"invalid argument", apperror.InvalidArgument("bad"), http.StatusBadRequest},
		{"conflict", apperror.Conflict("dup"), http.StatusBadRequest},
		{"unavailable", apperror.Unavailable(errors.New("redis down"), "lock"), http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped kind", fmt.Errorf("outer: %w", apperror.NotFound("user")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("context errors are unavailable", func(t *testing.T) {
		err := apperror.Wrap(fmt.Errorf("query: %w", context.DeadlineExceeded), "load exam")
		assert.True(t, apperror.Is(err, apperror.KindUnavailable))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("other errors are internal", func(t *testing.T) {
		err := apperror.Wrap(errors.New("connection reset"), "load exam")
		assert.True(t, apperror.Is(err, apperror.KindInternal))
		assert.Equal(t, "internal server error", apperror.Message(err))
	})

	t.Run("typed errors pass through", func(t *testing.T) {
		orig := apperror.Conflict("payment already exists for this registration")
		assert.Same(t, orig, apperror.Wrap(orig, "create payment"))
	})
}

func TestMessage(t *testing.T) {
	err := apperror.InvalidArgument("exam date must be in the future")
	assert.Equal(t, "exam date must be in the future", apperror.Message(err))
	assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))
}
