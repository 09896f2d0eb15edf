package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerationFailedExposesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := GenerationFailed(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.Equal(t, "disk full", err.Detail)
	assert.ErrorIs(t, err, cause)
}

func TestIsCode(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NotFound("Candidat non trouvé."))

	assert.True(t, IsCode(wrapped, http.StatusNotFound))
	assert.False(t, IsCode(wrapped, http.StatusForbidden))
	assert.False(t, IsCode(errors.New("plain"), http.StatusNotFound))
}

func TestWithRetryAfter(t *testing.T) {
	err := TooManyRequests("Trop de tentatives").WithRetryAfter(time.Minute)

	assert.Equal(t, http.StatusTooManyRequests, err.Code)
	assert.Equal(t, time.Minute, err.RetryAfter)
	assert.Zero(t, TooManyRequests("x").RetryAfter)
}
