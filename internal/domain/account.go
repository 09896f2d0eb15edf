package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// ParseRole accepts the canonical role names and the legacy French ones
// ("candidat", "recruteur") still sent by older front ends.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "candidate", "candidat":
		return RoleCandidate, true
	case "recruiter", "recruteur":
		return RoleRecruiter, true
	}
	return "", false
}

// Account is a registered user. Role is fixed at registration.
type Account struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	DateOfBirth      time.Time `json:"dateOfBirth"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	Phone            string    `json:"phone"`
	CandidateProfile *string   `json:"candidateProfile,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// AccountSummary is the account view returned alongside a token.
type AccountSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role}
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Role        string `json:"role" validate:"required"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,iso_date"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginMeta carries request attributes used for login throttling and audit.
type LoginMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type AuthResult struct {
	Token string         `json:"token"`
	User  AccountSummary `json:"user"`
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	// SetCandidateProfile points the account at its candidate profile.
	SetCandidateProfile(ctx context.Context, accountID, candidateID string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest, meta LoginMeta) (*AuthResult, error)
	GetCurrentUser(ctx context.Context, id string) (*Account, error)
}

// ErrDuplicateEmail is returned by repositories when a unique email index is hit.
var ErrDuplicateEmail = errors.New("email already exists")
