package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/apperror"
	"cv-platform-backend/pkg/logger"
	"cv-platform-backend/pkg/security"
	"cv-platform-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

const (
	msgMissingFields      = "Veuillez remplir tous les champs"
	msgInvalidCredentials = "Identifiants invalides"
)

// TokenIssuer signs a bearer token for an identity.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

type authUsecase struct {
	accounts domain.AccountRepository
	tokens   TokenIssuer
	tracker  *security.LoginTracker
	audit    *security.SecurityLogger
	validate *validator.Validate
}

func NewAuthUsecase(
	accounts domain.AccountRepository,
	tokens TokenIssuer,
	tracker *security.LoginTracker,
	audit *security.SecurityLogger,
	validate *validator.Validate,
) domain.AuthUsecase {
	return &authUsecase{
		accounts: accounts,
		tokens:   tokens,
		tracker:  tracker,
		audit:    audit,
		validate: validate,
	}
}

func (u *authUsecase) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := u.validate.Struct(req); err != nil {
		if validation.HasRequiredFailure(err) {
			return nil, apperror.BadRequest(msgMissingFields)
		}
		return nil, apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return nil, apperror.BadRequest("Rôle invalide")
	}
	// iso_date has already checked the layout.
	dob, _ := time.Parse(validation.DateLayout, req.DateOfBirth)

	existing, err := u.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.BadRequest("Cet utilisateur existe déjà")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		DateOfBirth:  dob,
		Address:      req.Address,
		City:         req.City,
		Phone:        req.Phone,
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperror.BadRequest("Cet utilisateur existe déjà")
		}
		return nil, err
	}

	u.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventUserCreated,
		SubjectType:  "user_id",
		SubjectValue: account.ID,
		Details:      map[string]any{"role": string(role)},
	})

	return u.issue(account)
}

func (u *authUsecase) Login(ctx context.Context, req domain.LoginRequest, meta domain.LoginMeta) (*domain.AuthResult, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.BadRequest(msgMissingFields)
	}

	blocked, err := u.tracker.IsBlocked(ctx, email, meta.IP)
	if err != nil {
		// Redis trouble must not lock everyone out.
		logger.Log.Warn("Login block check failed", "error", err)
	}
	if blocked {
		u.audit.LogLoginBlocked(ctx, email, meta.IP, meta.UserAgent, meta.RequestID)
		appErr := apperror.TooManyRequests("Trop de tentatives de connexion. Veuillez réessayer plus tard.")
		if ttl, ok, err := u.tracker.GetBlockTTL(ctx, email); err != nil {
			logger.Log.Warn("Login block TTL lookup failed", "error", err)
		} else if ok {
			appErr.WithRetryAfter(ttl)
		}
		return nil, appErr
	}

	account, err := u.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		if _, _, err := u.tracker.RecordFailedAttempt(ctx, email, meta.IP, meta.UserAgent, meta.RequestID); err != nil {
			logger.Log.Warn("Failed to record login attempt", "error", err)
		}
		return nil, apperror.BadRequest(msgInvalidCredentials)
	}

	if err := u.tracker.ClearAttempts(ctx, email, meta.IP); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}
	u.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventLoginSuccess,
		SubjectType:  "user_id",
		SubjectValue: account.ID,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
	})

	return u.issue(account)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.Account, error) {
	account, err := u.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NotFound("Utilisateur non trouvé")
	}
	return account, nil
}

func (u *authUsecase) issue(account *domain.Account) (*domain.AuthResult, error) {
	token, err := u.tokens.Issue(domain.Identity{ID: account.ID, Role: account.Role})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{Token: token, User: account.Summary()}, nil
}
