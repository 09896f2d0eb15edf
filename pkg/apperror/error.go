package apperror

import (
	"errors"
	"net/http"
	"time"
)

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Detail is returned to the client alongside Message when set
	Detail string `json:"error,omitempty"`
	// RetryAfter is sent as the Retry-After header when positive
	RetryAfter time.Duration `json:"-"`
	Err        error         `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, nil)
}

// WithRetryAfter sets RetryAfter and returns e.
func (e *AppError) WithRetryAfter(d time.Duration) *AppError {
	e.RetryAfter = d
	return e
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// GenerationFailed reports a CV render/upload failure. The underlying error
// text is exposed to the caller in Detail.
func GenerationFailed(err error) *AppError {
	appErr := New(http.StatusInternalServerError, "Erreur lors de la génération", err)
	if err != nil {
		appErr.Detail = err.Error()
	}
	return appErr
}

// IsCode reports whether err is an AppError carrying the given HTTP code.
func IsCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
