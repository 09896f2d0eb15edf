package postgres

import (
	"context"
	"errors"

	"cv-platform-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &accountRepo{db: db}
}

const accountColumns = `id, username, email, password_hash, role, date_of_birth, address, city, phone, candidate_profile, created_at`

func (r *accountRepo) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Username, a.Email, a.PasswordHash, string(a.Role),
		a.DateOfBirth, a.Address, a.City, a.Phone, a.CandidateProfile, a.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *accountRepo) SetCandidateProfile(ctx context.Context, accountID, candidateID string) error {
	if _, err := uuid.Parse(accountID); err != nil {
		// No account can carry a malformed id; nothing to link.
		return nil
	}
	_, err := r.db.Exec(ctx, `UPDATE accounts SET candidate_profile = $1 WHERE id = $2`, candidateID, accountID)
	return err
}

func (r *accountRepo) getOne(ctx context.Context, query string, arg string) (*domain.Account, error) {
	var a domain.Account
	var role string
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role,
		&a.DateOfBirth, &a.Address, &a.City, &a.Phone, &a.CandidateProfile, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
