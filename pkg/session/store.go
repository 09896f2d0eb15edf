// Package session keeps the signed-in identity of an API client across runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/logger"
)

var ErrNotLoggedIn = errors.New("session: not logged in")

// persisted is the on-disk shape. Both fields must be present to restore a session.
type persisted struct {
	Token string                 `json:"token"`
	User  *domain.AccountSummary `json:"user"`
}

// Store holds the token and identity of the current user. A restored session
// is trusted until an authenticated call is rejected with 401.
type Store struct {
	mu    sync.RWMutex
	path  string
	api   *APIClient
	token string
	user  *domain.AccountSummary
}

// Open restores the session saved at path, if any. A missing or partial file
// yields an anonymous session.
func Open(path string, api *APIClient) (*Store, error) {
	s := &Store{path: path, api: api}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}

	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		logger.Log.Warn("Ignoring unreadable session file", "path", path, "error", err)
		return s, nil
	}
	if p.Token != "" && p.User != nil {
		s.token, s.user = p.Token, p.User
	}
	return s, nil
}

// Current returns the signed-in identity.
func (s *Store) Current() (domain.AccountSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.AccountSummary{}, false
	}
	return *s.user, true
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Login(ctx context.Context, email, password string) (domain.AccountSummary, error) {
	var res domain.AuthResult
	if err := s.api.do(ctx, http.MethodPost, "/auth/login", "", domain.LoginRequest{Email: email, Password: password}, &res); err != nil {
		return domain.AccountSummary{}, err
	}
	return res.User, s.set(res.Token, &res.User)
}

func (s *Store) Register(ctx context.Context, req domain.RegisterRequest) (domain.AccountSummary, error) {
	var res domain.AuthResult
	if err := s.api.do(ctx, http.MethodPost, "/auth/register", "", req, &res); err != nil {
		return domain.AccountSummary{}, err
	}
	return res.User, s.set(res.Token, &res.User)
}

// Logout forgets the identity in memory and on disk.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.token, s.user = "", nil
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", s.path, err)
	}
	return nil
}

// CheckCandidateProfile asks the server whether userID owns a candidate
// profile. Any failure, including no session, reads as false.
func (s *Store) CheckCandidateProfile(ctx context.Context, userID string) bool {
	var check domain.ProfileCheck
	if err := s.authed(ctx, http.MethodGet, "/check-candidate-profile/"+userID, nil, &check); err != nil {
		logger.Log.Debug("Profile check failed", "user_id", userID, "error", err)
		return false
	}
	return check.HasProfile
}

// SubmitCV posts a profile submission for the signed-in user.
func (s *Store) SubmitCV(ctx context.Context, sub domain.CVSubmission) (*domain.CVResult, error) {
	var res domain.CVResult
	if err := s.authed(ctx, http.MethodPost, "/generate-pdf", sub, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// authed runs an authenticated call. A 401 ends the restored session.
func (s *Store) authed(ctx context.Context, method, path string, body, out any) error {
	token := s.Token()
	if token == "" {
		return ErrNotLoggedIn
	}

	err := s.api.do(ctx, method, path, token, body, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		if logoutErr := s.Logout(); logoutErr != nil {
			logger.Log.Warn("Failed to clear rejected session", "error", logoutErr)
		}
	}
	return err
}

func (s *Store) set(token string, user *domain.AccountSummary) error {
	s.mu.Lock()
	s.token, s.user = token, user
	s.mu.Unlock()
	return s.save(persisted{Token: token, User: user})
}

func (s *Store) save(p persisted) error {
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+strings.TrimPrefix(filepath.Base(s.path), ".")+"-*")
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
