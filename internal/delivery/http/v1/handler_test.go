package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cv-platform-backend/config"
	"cv-platform-backend/internal/delivery/http/middleware"
	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/apperror"
	"cv-platform-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockCandidateUsecase struct {
	mock.Mock
}

func (m *MockCandidateUsecase) GenerateCV(ctx context.Context, sub domain.CVSubmission) (*domain.CVResult, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CVResult), args.Error(1)
}

func (m *MockCandidateUsecase) CheckProfile(ctx context.Context, userID string) (*domain.ProfileCheck, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileCheck), args.Error(1)
}

func (m *MockCandidateUsecase) GetIDByUser(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockCandidateUsecase) GetByID(ctx context.Context, id string) (*domain.CandidateProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateProfile), args.Error(1)
}

func (m *MockCandidateUsecase) List(ctx context.Context, filter domain.ListFilter) ([]domain.CandidateProfile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateProfile), args.Error(1)
}

func (m *MockCandidateUsecase) Download(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockCandidateUsecase) TrackView(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCandidateUsecase) Export(ctx context.Context, req domain.ExportRequest) ([]byte, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, req domain.LoginRequest, meta domain.LoginMeta) (*domain.AuthResult, error) {
	args := m.Called(ctx, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type stubHealth struct{ healthy bool }

func (s stubHealth) Check(context.Context) (map[string]string, bool) {
	if s.healthy {
		return map[string]string{"status": "ok", "database": "ok"}, true
	}
	return map[string]string{"status": "unavailable", "database": "down"}, false
}

type stubVerifier map[string]domain.Identity

func (s stubVerifier) Verify(token string) (domain.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return domain.Identity{}, errors.New("bad token")
}

type fixture struct {
	router    *gin.Engine
	auth      *MockAuthUsecase
	candidate *MockCandidateUsecase
	staticDir string
}

func newFixture(t *testing.T, healthy bool) *fixture {
	t.Helper()
	f := &fixture{
		auth:      new(MockAuthUsecase),
		candidate: new(MockCandidateUsecase),
		staticDir: t.TempDir(),
	}
	cfg := &config.Config{
		AllowedOrigins:           []string{"http://localhost:3000"},
		Environment:              "development",
		RateLimitWindowSeconds:   60,
		RateLimitGlobalThreshold: 1000,
		StaticDir:                f.staticDir,
		StaticPrefix:             "/temp",
	}
	f.router = NewRouter(RouterDeps{
		AuthUC:      f.auth,
		CandidateUC: f.candidate,
		HealthUC:    stubHealth{healthy: healthy},
		Tokens: stubVerifier{
			"cand-token": {ID: "user-1", Role: domain.RoleCandidate},
			"rec-token":  {ID: "user-2", Role: domain.RoleRecruiter},
		},
		RateLimiter: middleware.NewRateLimiter(nil, security.NopLogger()),
		Audit:       security.NopLogger(),
		Config:      cfg,
	})
	return f
}

func (f *fixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	w := newFixture(t, true).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = newFixture(t, false).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRegister(t *testing.T) {
	f := newFixture(t, true)
	req := domain.RegisterRequest{
		Username: "alice", Email: "a@x.com", Password: "pw", Role: "candidat",
		DateOfBirth: "1990-01-01", Address: "1 rue", City: "Paris", Phone: "0600000000",
	}
	f.auth.On("Register", mock.Anything, req).Return(&domain.AuthResult{
		Token: "tok",
		User:  domain.AccountSummary{ID: "user-1", Email: "a@x.com", Role: domain.RoleCandidate},
	}, nil)

	w := f.do(http.MethodPost, "/auth/register", "", req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "candidate", body["user"].(map[string]any)["role"])
}

func TestRegisterMalformedBody(t *testing.T) {
	f := newFixture(t, true)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Veuillez remplir tous les champs", decode(t, w)["message"])
	f.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestLoginPassesRequestMeta(t *testing.T) {
	f := newFixture(t, true)
	creds := domain.LoginRequest{Email: "a@x.com", Password: "bad"}
	f.auth.On("Login", mock.Anything, creds, mock.MatchedBy(func(m domain.LoginMeta) bool {
		return m.IP != "" && m.RequestID != ""
	})).Return(nil, apperror.BadRequest("Identifiants invalides"))

	w := f.do(http.MethodPost, "/auth/login", "", creds)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Identifiants invalides", decode(t, w)["message"])
	f.auth.AssertExpectations(t)
}

func TestMe(t *testing.T) {
	f := newFixture(t, true)
	f.auth.On("GetCurrentUser", mock.Anything, "user-1").Return(&domain.Account{ID: "user-1", Email: "a@x.com"}, nil)

	w := f.do(http.MethodGet, "/auth/user", "cand-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@x.com", decode(t, w)["email"])

	w = f.do(http.MethodGet, "/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Pas de token, autorisation refusée", decode(t, w)["message"])
}

func TestGenerateCV(t *testing.T) {
	f := newFixture(t, true)
	sub := domain.CVSubmission{Name: "Alice", Email: "a@x.com", Experience: "5 ans"}
	f.candidate.On("GenerateCV", mock.MatchedBy(func(ctx context.Context) bool {
		id, ok := domain.IdentityFromContext(ctx)
		return ok && id.ID == "user-1"
	}), sub).Return(&domain.CVResult{
		Message: "CV généré avec succès", CVURL: "http://localhost:5000/temp/cv.pdf", CandidateID: "cand-1",
	}, nil)

	w := f.do(http.MethodPost, "/generate-pdf", "cand-token", sub)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "cand-1", body["candidateId"])
	assert.Equal(t, "http://localhost:5000/temp/cv.pdf", body["cvUrl"])
}

func TestGenerateCVRequiresToken(t *testing.T) {
	f := newFixture(t, true)
	w := f.do(http.MethodPost, "/generate-pdf", "forged", domain.CVSubmission{})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token invalide", decode(t, w)["message"])
	f.candidate.AssertNotCalled(t, "GenerateCV", mock.Anything, mock.Anything)
}

func TestGenerateCVRenderFailure(t *testing.T) {
	f := newFixture(t, true)
	f.candidate.On("GenerateCV", mock.Anything, mock.Anything).
		Return(nil, apperror.GenerationFailed(errors.New("disk full")))

	w := f.do(http.MethodPost, "/generate-pdf", "cand-token", domain.CVSubmission{Name: "A"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Erreur lors de la génération", body["message"])
	assert.Contains(t, body["error"], "disk full")
}

func TestCandidateLookups(t *testing.T) {
	f := newFixture(t, true)
	cid := "cand-1"
	f.candidate.On("CheckProfile", mock.Anything, "user-1").Return(&domain.ProfileCheck{HasProfile: true, CandidateID: &cid}, nil)
	f.candidate.On("GetIDByUser", mock.Anything, "user-9").Return("", apperror.NotFound("Profil candidat non trouvé"))

	w := f.do(http.MethodGet, "/check-candidate-profile/user-1", "cand-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["hasProfile"])
	assert.Equal(t, cid, body["candidateId"])

	w = f.do(http.MethodGet, "/candidates/user/user-9", "cand-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Profil candidat non trouvé", decode(t, w)["message"])
}

func TestGetCandidateByID(t *testing.T) {
	f := newFixture(t, true)
	f.candidate.On("GetByID", mock.Anything, "cand-2").Return(nil, apperror.Forbidden("Accès non autorisé"))

	w := f.do(http.MethodGet, "/candidates/cand-2", "cand-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Accès non autorisé", decode(t, w)["message"])
}

func TestListCandidatesIsRecruiterOnly(t *testing.T) {
	f := newFixture(t, true)
	filter := domain.ListFilter{Domain: "Informatique", Skills: []string{"Go", "SQL", "React"}}
	f.candidate.On("List", mock.Anything, filter).Return([]domain.CandidateProfile{{ID: "cand-1", Name: "Alice"}}, nil)

	w := f.do(http.MethodGet, "/candidates?domaine=Informatique&skills=Go,SQL&skills=React", "cand-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Accès refusé - Vous n'avez pas les droits nécessaires", decode(t, w)["message"])

	w = f.do(http.MethodGet, "/candidates?domaine=Informatique&skills=Go,SQL&skills=React", "rec-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Alice", list[0]["nom"])
}

func TestExportCandidates(t *testing.T) {
	f := newFixture(t, true)
	f.candidate.On("Export", mock.Anything, domain.ExportRequest{Format: "csv"}).
		Return([]byte("Nom,Email\n"), "candidats.csv", nil)

	w := f.do(http.MethodGet, "/candidates/export?format=csv", "rec-token", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="candidats.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "Nom,Email\n", w.Body.String())
	f.candidate.AssertNotCalled(t, "GetByID", mock.Anything, "export")
}

func TestDownloadRedirects(t *testing.T) {
	f := newFixture(t, true)
	f.candidate.On("Download", mock.Anything, "cand-1").Return("https://bucket.example/cv.pdf", nil)
	f.candidate.On("Download", mock.Anything, "missing").Return("", apperror.NotFound("CV introuvable pour ce candidat."))

	w := f.do(http.MethodGet, "/download-cv/cand-1", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://bucket.example/cv.pdf", w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/download-cv/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CV introuvable pour ce candidat.", decode(t, w)["message"])
}

func TestTrackDownload(t *testing.T) {
	f := newFixture(t, true)
	f.candidate.On("TrackView", mock.Anything, "cand-1").Return(true, nil)
	f.candidate.On("TrackView", mock.Anything, "missing").Return(false, nil)

	w := f.do(http.MethodGet, "/track-download/cand-1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	w = f.do(http.MethodGet, "/track-download/missing", "", nil)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestStaticCVFiles(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(f.staticDir, "cv_alice_1.pdf"), []byte("%PDF-1.3"), 0o600))

	w := f.do(http.MethodGet, "/temp/cv_alice_1.pdf", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, true)
	f.do(http.MethodGet, "/health", "", nil)

	w := f.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
