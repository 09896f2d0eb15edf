package domain

import (
	"context"
	"time"
)

// ProfessionalDomain is the fixed enumeration a candidate files under.
type ProfessionalDomain string

const (
	DomainIT          ProfessionalDomain = "Informatique"
	DomainHealth      ProfessionalDomain = "Santé"
	DomainFinance     ProfessionalDomain = "Finance"
	DomainEngineering ProfessionalDomain = "Ingénierie"
	DomainEducation   ProfessionalDomain = "Éducation"
)

// DomainSkills lists the suggested skills offered for each domain.
var DomainSkills = map[ProfessionalDomain][]string{
	DomainIT:          {"JavaScript", "React", "Node.js", "Python", "SQL", "DevOps"},
	DomainHealth:      {"Soins infirmiers", "Médecine générale", "Pharmacie", "Radiologie"},
	DomainFinance:     {"Analyse financière", "Comptabilité", "Audit", "Gestion de portefeuille"},
	DomainEngineering: {"Génie civil", "Électricité", "Mécanique", "Robotique"},
	DomainEducation:   {"Pédagogie", "Psychologie de l'éducation", "Langues", "Mathématiques"},
}

func (d ProfessionalDomain) Valid() bool {
	_, ok := DomainSkills[d]
	return ok
}

// CandidateProfile is a submitted résumé. Email is unique across profiles;
// UserID points at the owning account but is not enforced by the store.
type CandidateProfile struct {
	ID          string             `json:"id"`
	Name        string             `json:"nom"`
	Email       string             `json:"email"`
	Phone       string             `json:"telephone"`
	DateOfBirth string             `json:"dateNaissance"`
	Region      string             `json:"Region"`
	LinkedIn    *string            `json:"linkedin,omitempty"`
	GitHub      *string            `json:"github,omitempty"`
	Domain      ProfessionalDomain `json:"domaine"`
	Skills      []string           `json:"competences"`
	Experience  string             `json:"experience"`
	Score       float64            `json:"score"`
	CVURL       *string            `json:"cvUrl,omitempty"`
	CVViews     int64              `json:"cvViews"`
	UserID      *string            `json:"user,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	// MatchingScore is only set on filtered list results.
	MatchingScore *int `json:"matchingScore,omitempty"`
}

// OwnedBy reports whether the profile's owner reference equals userID.
func (p *CandidateProfile) OwnedBy(userID string) bool {
	return p.UserID != nil && *p.UserID == userID
}

// CVSubmission is the body of POST /generate-pdf.
type CVSubmission struct {
	Name         string   `json:"nom" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"telephone" validate:"required"`
	DateOfBirth  string   `json:"dateNaissance" validate:"required"`
	Region       string   `json:"Region" validate:"required"`
	LinkedIn     string   `json:"linkedin"`
	GitHub       string   `json:"github"`
	Domain       string   `json:"domaine" validate:"required,cv_domain"`
	Skills       []string `json:"competences"`
	OtherSkill   string   `json:"autreCompetence"`
	Experience   string   `json:"experience" validate:"required"`
	TargetUserID string   `json:"userId"`
}

// CVResult is returned once a submission has been reconciled and rendered.
type CVResult struct {
	Message     string `json:"message"`
	CVURL       string `json:"cvUrl"`
	CandidateID string `json:"candidateId"`
}

// ProfileCheck answers "does this user already own a profile".
type ProfileCheck struct {
	HasProfile  bool    `json:"hasProfile"`
	CandidateID *string `json:"candidateId,omitempty"`
}

// ReconcileOutcome names which branch of the owner/email/create lookup ran.
type ReconcileOutcome string

const (
	OutcomeUpdatedOwned ReconcileOutcome = "updated_owned"
	OutcomeReparented   ReconcileOutcome = "reparented_by_email"
	OutcomeCreated      ReconcileOutcome = "created"
)

// ListFilter narrows the recruiter listing. A zero filter lists every profile.
type ListFilter struct {
	Domain string
	Search string
	Skills []string
}

func (f ListFilter) IsZero() bool {
	return f.Domain == "" && f.Search == "" && len(f.Skills) == 0
}

// ExportRequest selects the recruiter export format ("xlsx" or "csv").
type ExportRequest struct {
	Format string
	Filter ListFilter
}

type CandidateRepository interface {
	GetByID(ctx context.Context, id string) (*CandidateProfile, error)
	GetByUserID(ctx context.Context, userID string) (*CandidateProfile, error)
	GetByEmail(ctx context.Context, email string) (*CandidateProfile, error)
	List(ctx context.Context) ([]CandidateProfile, error)
	Create(ctx context.Context, profile *CandidateProfile) error
	Update(ctx context.Context, profile *CandidateProfile) error
	// IncrementViews atomically adds one to cv_views. It reports false when
	// no profile has the given id.
	IncrementViews(ctx context.Context, id string) (bool, error)
}

type CandidateUsecase interface {
	GenerateCV(ctx context.Context, sub CVSubmission) (*CVResult, error)
	CheckProfile(ctx context.Context, userID string) (*ProfileCheck, error)
	GetIDByUser(ctx context.Context, userID string) (string, error)
	GetByID(ctx context.Context, id string) (*CandidateProfile, error)
	List(ctx context.Context, filter ListFilter) ([]CandidateProfile, error)
	Download(ctx context.Context, id string) (string, error)
	TrackView(ctx context.Context, id string) (bool, error)
	Export(ctx context.Context, req ExportRequest) ([]byte, string, error)
}
