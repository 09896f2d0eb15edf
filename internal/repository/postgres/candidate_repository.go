package postgres

import (
	"context"
	"errors"

	"cv-platform-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

const candidateColumns = `
	id, name, email, phone, date_of_birth, region, linkedin, github, domain,
	skills, experience, score, cv_url, cv_views, user_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*domain.CandidateProfile, error) {
	var p domain.CandidateProfile
	var skills []string
	var domainName string

	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.DateOfBirth, &p.Region,
		&p.LinkedIn, &p.GitHub, &domainName,
		pq.Array(&skills), &p.Experience, &p.Score, &p.CVURL, &p.CVViews,
		&p.UserID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Domain = domain.ProfessionalDomain(domainName)
	if skills == nil {
		skills = []string{}
	}
	p.Skills = skills
	return &p, nil
}

func (r *candidateRepository) getOne(ctx context.Context, where string, arg string) (*domain.CandidateProfile, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidate_profiles WHERE ` + where + ` LIMIT 1`
	p, err := scanCandidate(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*domain.CandidateProfile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, `id = $1`, id)
}

func (r *candidateRepository) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, `user_id = $1`, userID)
}

func (r *candidateRepository) GetByEmail(ctx context.Context, email string) (*domain.CandidateProfile, error) {
	return r.getOne(ctx, `email = $1`, email)
}

func (r *candidateRepository) List(ctx context.Context) ([]domain.CandidateProfile, error) {
	rows, err := r.db.Query(ctx, `SELECT `+candidateColumns+` FROM candidate_profiles ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.CandidateProfile{}
	for rows.Next() {
		p, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *candidateRepository) Create(ctx context.Context, p *domain.CandidateProfile) error {
	query := `
		INSERT INTO candidate_profiles (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Email, p.Phone, p.DateOfBirth, p.Region,
		p.LinkedIn, p.GitHub, string(p.Domain),
		pq.Array(p.Skills), p.Experience, p.Score, p.CVURL, p.CVViews,
		p.UserID, p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

// Update overwrites every mutable column. cv_views is left alone so concurrent
// view increments are never lost to a profile save.
func (r *candidateRepository) Update(ctx context.Context, p *domain.CandidateProfile) error {
	query := `
		UPDATE candidate_profiles SET
			name = $1, email = $2, phone = $3, date_of_birth = $4, region = $5,
			linkedin = $6, github = $7, domain = $8, skills = $9, experience = $10,
			score = $11, cv_url = $12, user_id = $13
		WHERE id = $14`
	_, err := r.db.Exec(ctx, query,
		p.Name, p.Email, p.Phone, p.DateOfBirth, p.Region,
		p.LinkedIn, p.GitHub, string(p.Domain), pq.Array(p.Skills), p.Experience,
		p.Score, p.CVURL, p.UserID,
		p.ID,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *candidateRepository) IncrementViews(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	tag, err := r.db.Exec(ctx, `UPDATE candidate_profiles SET cv_views = cv_views + 1 WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
