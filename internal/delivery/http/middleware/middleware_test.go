package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/apperror"
	"cv-platform-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]domain.Identity

func (s stubVerifier) Verify(token string) (domain.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return domain.Identity{}, errors.New("bad token")
}

var verifier = stubVerifier{
	"cand-token": {ID: "user-1", Role: domain.RoleCandidate},
	"rec-token":  {ID: "user-2", Role: domain.RoleRecruiter},
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/x", AuthMiddleware(verifier), func(c *gin.Context) {
		id, ok := domain.IdentityFromContext(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, id)
	})

	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Pas de token, autorisation refusée", decode(t, w)["message"])

	w = do(r, "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token invalide", decode(t, w)["message"])

	w = do(r, "cand-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", decode(t, w)["id"])
}

func TestRequireRoles(t *testing.T) {
	audit := security.NopLogger()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	r := gin.New()
	r.GET("/x", AuthMiddleware(verifier), RequireRoles(audit, domain.RoleRecruiter), ok)

	assert.Equal(t, http.StatusForbidden, do(r, "cand-token").Code)
	assert.Equal(t, http.StatusOK, do(r, "rec-token").Code)

	anyRole := gin.New()
	anyRole.GET("/x", AuthMiddleware(verifier), RequireRoles(audit), ok)
	assert.Equal(t, http.StatusOK, do(anyRole, "cand-token").Code)

	// Without the identity verifier in front, the gate reports unauthenticated.
	noAuth := gin.New()
	noAuth.GET("/x", RequireRoles(audit, domain.RoleRecruiter), ok)
	w := do(noAuth, "rec-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Utilisateur non authentifié", decode(t, w)["message"])
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperror.GenerationFailed(errors.New("bucket unreachable")))
	})
	r.GET("/raw", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Erreur lors de la génération", body["message"])
	assert.Equal(t, "bucket unreachable", body["error"])
	assert.NotEmpty(t, body["request_id"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))
	body = decode(t, w)
	assert.Equal(t, "Erreur serveur", body["message"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestErrorHandlerRetryAfter(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/blocked", func(c *gin.Context) {
		_ = c.Error(apperror.TooManyRequests("Trop de tentatives").WithRetryAfter(90*time.Second + 200*time.Millisecond))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(apperror.TooManyRequests("Trop de tentatives"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blocked", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "91", w.Header().Get("Retry-After"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Empty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiterInMemory(t *testing.T) {
	rl := NewRateLimiter(nil, security.NopLogger())
	r := gin.New()
	r.GET("/x", rl.Middleware(DefaultRateLimitConfig(2, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)

	w := do(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://cv.example.com"}, true))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://cv.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://cv.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("http://localhost:3000")
	assert.Equal(t, http.StatusForbidden, w.Code, "dev origins are refused in production")
}

func TestRequestIDPropagation(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.Request.Context().Value(domain.KeyRequestID).(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "0b7e3bb8-3c1e-4a6e-9a53-5f3c9f0b8f11")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "0b7e3bb8-3c1e-4a6e-9a53-5f3c9f0b8f11", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
}
