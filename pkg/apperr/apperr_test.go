package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := map[string]int{
		CodeBadRequest:        http.StatusBadRequest,
		CodeUnauthorized:      http.StatusUnauthorized,
		CodeForbidden:         http.StatusForbidden,
		CodeNotFound:          http.StatusNotFound,
		CodeConflict:          http.StatusConflict,
		CodeDuplicatePost:     http.StatusConflict,
		CodeCompositionFailed: http.StatusUnprocessableEntity,
		CodeStorage:           http.StatusInternalServerError,
		CodeRateLimited:       http.StatusTooManyRequests,
		"SOMETHING_ELSE":      http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, HTTPStatus(code), code)
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("create post: %w", New(CodeDuplicatePost, "You can only post once per day"))

	assert.True(t, errors.Is(err, ErrDuplicatePost))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, CodeDuplicatePost, CodeOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, "internal server error", PublicMessage(err))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Post not found", PublicMessage(NotFound("Post not found")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("boom")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
