package usecase_test

import (
	"context"
	"errors"
	"testing"

	"cv-platform-backend/internal/domain"
	"cv-platform-backend/internal/usecase"
	"cv-platform-backend/pkg/apperror"
	"cv-platform-backend/pkg/security"
	"cv-platform-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubIssuer struct{}

func (stubIssuer) Issue(id domain.Identity) (string, error) {
	return "token-" + id.ID, nil
}

func newAuth(accounts *MockAccountRepo) domain.AuthUsecase {
	tracker := security.NewLoginTracker(nil, security.DefaultLoginTrackerConfig(), security.NopLogger())
	return usecase.NewAuthUsecase(accounts, stubIssuer{}, tracker, security.NopLogger(), validation.New())
}

func validRegistration() domain.RegisterRequest {
	return domain.RegisterRequest{
		Username: "alice", Email: "alice@x.fr", Password: "secret", Role: "candidat",
		DateOfBirth: "1990-04-12", Address: "1 rue de Paris", City: "Paris", Phone: "0612345678",
	}
}

func TestRegister(t *testing.T) {
	accounts := new(MockAccountRepo)
	ctx := context.Background()
	accounts.On("GetByEmail", ctx, "alice@x.fr").Return(nil, nil)
	accounts.On("Create", ctx, mock.MatchedBy(func(a *domain.Account) bool {
		return a.Role == domain.RoleCandidate &&
			bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("secret")) == nil &&
			a.DateOfBirth.Year() == 1990
	})).Return(nil)

	res, err := newAuth(accounts).Register(ctx, validRegistration())

	require.NoError(t, err)
	assert.Equal(t, "token-"+res.User.ID, res.Token)
	assert.Equal(t, domain.RoleCandidate, res.User.Role)
	assert.Equal(t, "alice@x.fr", res.User.Email)
	accounts.AssertExpectations(t)
}

func TestRegisterRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("missing field", func(t *testing.T) {
		req := validRegistration()
		req.City = ""
		_, err := newAuth(new(MockAccountRepo)).Register(ctx, req)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Equal(t, "Veuillez remplir tous les champs", appErr.Message)
	})

	t.Run("unknown role", func(t *testing.T) {
		req := validRegistration()
		req.Role = "admin"
		_, err := newAuth(new(MockAccountRepo)).Register(ctx, req)
		assert.True(t, apperror.IsCode(err, 400))
	})

	t.Run("bad date", func(t *testing.T) {
		req := validRegistration()
		req.DateOfBirth = "12/04/1990"
		accounts := new(MockAccountRepo)
		_, err := newAuth(accounts).Register(ctx, req)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Equal(t, "Date de naissance : date attendue au format AAAA-MM-JJ", appErr.Message)
		accounts.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("existing email", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		accounts.On("GetByEmail", ctx, "alice@x.fr").Return(&domain.Account{ID: "u-1"}, nil)
		_, err := newAuth(accounts).Register(ctx, validRegistration())
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Cet utilisateur existe déjà", appErr.Message)
		accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert race", func(t *testing.T) {
		accounts := new(MockAccountRepo)
		accounts.On("GetByEmail", ctx, "alice@x.fr").Return(nil, nil)
		accounts.On("Create", ctx, mock.Anything).Return(domain.ErrDuplicateEmail)
		_, err := newAuth(accounts).Register(ctx, validRegistration())
		assert.True(t, apperror.IsCode(err, 400))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &domain.Account{ID: "u-1", Email: "alice@x.fr", PasswordHash: string(hash), Role: domain.RoleRecruiter}

	accounts := new(MockAccountRepo)
	accounts.On("GetByEmail", ctx, "alice@x.fr").Return(account, nil)
	accounts.On("GetByEmail", ctx, "nobody@x.fr").Return(nil, nil)
	uc := newAuth(accounts)
	meta := domain.LoginMeta{IP: "10.0.0.1"}

	res, err := uc.Login(ctx, domain.LoginRequest{Email: " alice@x.fr ", Password: "secret"}, meta)
	require.NoError(t, err)
	assert.Equal(t, "token-u-1", res.Token)
	assert.Equal(t, domain.RoleRecruiter, res.User.Role)

	for _, req := range []domain.LoginRequest{
		{Email: "alice@x.fr", Password: "wrong"},
		{Email: "nobody@x.fr", Password: "secret"},
	} {
		_, err := uc.Login(ctx, req, meta)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Equal(t, "Identifiants invalides", appErr.Message)
	}

	_, err = uc.Login(ctx, domain.LoginRequest{Email: "alice@x.fr"}, meta)
	assert.True(t, apperror.IsCode(err, 400))
}

func TestGetCurrentUser(t *testing.T) {
	ctx := context.Background()
	accounts := new(MockAccountRepo)
	accounts.On("GetByID", ctx, "u-1").Return(&domain.Account{ID: "u-1"}, nil)
	accounts.On("GetByID", ctx, "gone").Return(nil, nil)
	accounts.On("GetByID", ctx, "broken").Return(nil, errors.New("db down"))
	uc := newAuth(accounts)

	account, err := uc.GetCurrentUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", account.ID)

	_, err = uc.GetCurrentUser(ctx, "gone")
	assert.True(t, apperror.IsCode(err, 404))

	_, err = uc.GetCurrentUser(ctx, "broken")
	assert.EqualError(t, err, "db down")
}

func TestHealthCheck(t *testing.T) {
	ok := usecase.PingFunc(func(context.Context) error { return nil })
	down := usecase.PingFunc(func(context.Context) error { return errors.New("connection refused") })

	status, healthy := usecase.NewHealthUsecase(
		map[string]usecase.Pinger{"database": ok},
		map[string]usecase.Pinger{"redis": down},
	).Check(context.Background())
	assert.True(t, healthy, "optional dependency failures only degrade")
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "degraded: connection refused", status["redis"])

	status, healthy = usecase.NewHealthUsecase(map[string]usecase.Pinger{"database": down}, nil).Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "unavailable", status["status"])
}
