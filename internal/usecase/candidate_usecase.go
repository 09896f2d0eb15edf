package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/apperror"
	"cv-platform-backend/pkg/logger"
	"cv-platform-backend/pkg/metrics"
	"cv-platform-backend/pkg/pdf"
	"cv-platform-backend/pkg/security"
	"cv-platform-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
)

const cvGeneratedMessage = "CV généré avec succès"

// DocumentUploader publishes a rendered file and returns its public URL.
type DocumentUploader interface {
	Upload(ctx context.Context, localPath, name string) (string, error)
}

type candidateUsecase struct {
	repo      domain.CandidateRepository
	accounts  domain.AccountRepository
	renderer  pdf.Renderer
	uploader  DocumentUploader
	audit     *security.SecurityLogger
	validate  *validator.Validate
	renderDir string
	now       func() time.Time
}

func NewCandidateUsecase(
	repo domain.CandidateRepository,
	accounts domain.AccountRepository,
	renderer pdf.Renderer,
	uploader DocumentUploader,
	audit *security.SecurityLogger,
	validate *validator.Validate,
	renderDir string,
) domain.CandidateUsecase {
	return &candidateUsecase{
		repo:      repo,
		accounts:  accounts,
		renderer:  renderer,
		uploader:  uploader,
		audit:     audit,
		validate:  validate,
		renderDir: renderDir,
		now:       time.Now,
	}
}

func (u *candidateUsecase) GenerateCV(ctx context.Context, sub domain.CVSubmission) (*domain.CVResult, error) {
	caller, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthorized("Utilisateur non authentifié")
	}

	if err := u.validate.Struct(sub); err != nil {
		return nil, submissionError(err)
	}

	// Only recruiters may submit on behalf of another account.
	targetUserID := strings.TrimSpace(sub.TargetUserID)
	if targetUserID == "" {
		targetUserID = caller.ID
	}
	if targetUserID != caller.ID && caller.Role != domain.RoleRecruiter {
		return nil, apperror.Forbidden("Accès non autorisé")
	}

	result, outcome, err := u.generate(ctx, targetUserID, sub)
	if err != nil {
		metrics.CVGenerations.WithLabelValues("failed").Inc()
		logger.Log.Error("CV generation failed", "user_id", targetUserID, "error", err)

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.GenerationFailed(err)
	}

	metrics.CVGenerations.WithLabelValues(string(outcome)).Inc()
	return result, nil
}

func (u *candidateUsecase) generate(ctx context.Context, userID string, sub domain.CVSubmission) (*domain.CVResult, domain.ReconcileOutcome, error) {
	skills := MergeSkills(sub.Skills, sub.OtherSkill)
	incoming := &domain.CandidateProfile{
		Name:        strings.TrimSpace(sub.Name),
		Email:       strings.TrimSpace(sub.Email),
		Phone:       sub.Phone,
		DateOfBirth: sub.DateOfBirth,
		Region:      sub.Region,
		LinkedIn:    optional(sub.LinkedIn),
		GitHub:      optional(sub.GitHub),
		Domain:      domain.ProfessionalDomain(sub.Domain),
		Skills:      skills,
		Experience:  sub.Experience,
		Score:       ComputeScore(len(skills), sub.Experience),
	}

	profile, outcome, err := ReconcileByEmailOrOwner(ctx, u.repo, u.audit, userID, incoming)
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return nil, "", apperror.BadRequest("Cet email est déjà associé à un autre profil")
	}
	if err != nil {
		return nil, "", err
	}

	// Not transactional with the profile save: a failure here leaves the
	// profile persisted and unlinked.
	if err := u.accounts.SetCandidateProfile(ctx, userID, profile.ID); err != nil {
		return nil, "", err
	}

	link, err := u.renderAndUpload(ctx, profile)
	if err != nil {
		return nil, "", err
	}

	profile.CVURL = &link
	if err := u.repo.Update(ctx, profile); err != nil {
		return nil, "", err
	}

	return &domain.CVResult{
		Message:     cvGeneratedMessage,
		CVURL:       link,
		CandidateID: profile.ID,
	}, outcome, nil
}

// renderAndUpload renders into a uniquely named file under renderDir and
// publishes it. The local file is always removed.
func (u *candidateUsecase) renderAndUpload(ctx context.Context, profile *domain.CandidateProfile) (string, error) {
	doc, err := pdf.NewCVDocument(profile)
	if err != nil {
		return "", err
	}

	name := pdf.FileName(profile.Name, u.now())
	path := filepath.Join(u.renderDir, name)
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Log.Warn("Failed to remove rendered CV", "path", path, "error", err)
		}
	}()

	timer := prometheus.NewTimer(metrics.CVRenderDuration)
	err = pdf.RenderToFile(ctx, u.renderer, doc, path)
	timer.ObserveDuration()
	if err != nil {
		return "", err
	}

	return u.uploader.Upload(ctx, path, name)
}

func (u *candidateUsecase) CheckProfile(ctx context.Context, userID string) (*domain.ProfileCheck, error) {
	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &domain.ProfileCheck{HasProfile: false}, nil
	}
	id := profile.ID
	return &domain.ProfileCheck{HasProfile: true, CandidateID: &id}, nil
}

func (u *candidateUsecase) GetIDByUser(ctx context.Context, userID string) (string, error) {
	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", apperror.NotFound("Profil candidat non trouvé")
	}
	return profile.ID, nil
}

// GetByID returns a profile; candidates may only read their own.
func (u *candidateUsecase) GetByID(ctx context.Context, id string) (*domain.CandidateProfile, error) {
	caller, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthorized("Utilisateur non authentifié")
	}

	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound("Candidat non trouvé.")
	}
	if caller.Role == domain.RoleCandidate && !profile.OwnedBy(caller.ID) {
		return nil, apperror.Forbidden("Accès non autorisé")
	}
	return profile, nil
}

func (u *candidateUsecase) List(ctx context.Context, filter domain.ListFilter) ([]domain.CandidateProfile, error) {
	profiles, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProfiles(profiles, filter), nil
}

// Download counts a view and returns the stored CV URL.
func (u *candidateUsecase) Download(ctx context.Context, id string) (string, error) {
	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if profile == nil || profile.CVURL == nil || *profile.CVURL == "" {
		return "", apperror.NotFound("CV introuvable pour ce candidat.")
	}

	if _, err := u.repo.IncrementViews(ctx, id); err != nil {
		return "", err
	}
	return *profile.CVURL, nil
}

func (u *candidateUsecase) TrackView(ctx context.Context, id string) (bool, error) {
	return u.repo.IncrementViews(ctx, id)
}

func submissionError(err error) error {
	if validation.HasRequiredFailure(err) {
		return apperror.BadRequest("Veuillez remplir tous les champs")
	}
	msgs := validation.FormatValidationErrors(err)
	if len(msgs) == 0 {
		return apperror.BadRequest(err.Error())
	}
	return apperror.BadRequest(strings.Join(msgs, "; "))
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
