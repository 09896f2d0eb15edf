package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/security"

	"github.com/google/uuid"
)

// MergeSkills appends the trimmed free-text skill to the selection when it is
// non-empty. Duplicates are kept.
func MergeSkills(selected []string, other string) []string {
	skills := make([]string, 0, len(selected)+1)
	skills = append(skills, selected...)
	if other = strings.TrimSpace(other); other != "" {
		skills = append(skills, other)
	}
	return skills
}

// ComputeScore returns min(100, skillCount*20 + characters(experience)*0.5).
func ComputeScore(skillCount int, experience string) float64 {
	if skillCount < 0 {
		skillCount = 0
	}
	score := float64(skillCount)*20 + float64(utf8.RuneCountInString(experience))*0.5
	return math.Min(100, score)
}

// ReconcileByEmailOrOwner is an upsert keyed first on the owning account and
// then on email, persisting incoming for userID:
//
//  1. a profile owned by userID is overwritten in place;
//  2. otherwise a profile with the same email is overwritten and its ownership
//     transferred to userID (recorded in the audit log);
//  3. otherwise a new profile is created.
//
// id, owner (except on transfer) and cv_views of an existing profile are never
// overwritten, nor is its current CV URL.
func ReconcileByEmailOrOwner(
	ctx context.Context,
	repo domain.CandidateRepository,
	audit *security.SecurityLogger,
	userID string,
	incoming *domain.CandidateProfile,
) (*domain.CandidateProfile, domain.ReconcileOutcome, error) {
	owned, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if owned != nil {
		overwriteProfile(owned, incoming)
		if err := repo.Update(ctx, owned); err != nil {
			return nil, "", err
		}
		return owned, domain.OutcomeUpdatedOwned, nil
	}

	profile, err := reparentByEmail(ctx, repo, audit, userID, incoming)
	if err != nil || profile != nil {
		return profile, domain.OutcomeReparented, err
	}

	created := *incoming
	created.ID = uuid.NewString()
	created.UserID = &userID
	created.CVViews = 0
	created.CVURL = nil
	created.CreatedAt = time.Now().UTC()

	err = repo.Create(ctx, &created)
	if errors.Is(err, domain.ErrDuplicateEmail) {
		// A concurrent submission inserted the same email between our lookup
		// and insert; resolve against that record instead.
		profile, err := reparentByEmail(ctx, repo, audit, userID, incoming)
		if err != nil {
			return nil, "", err
		}
		if profile == nil {
			return nil, "", domain.ErrDuplicateEmail
		}
		return profile, domain.OutcomeReparented, nil
	}
	if err != nil {
		return nil, "", err
	}
	return &created, domain.OutcomeCreated, nil
}

// reparentByEmail returns (nil, nil) when no profile carries incoming.Email.
func reparentByEmail(
	ctx context.Context,
	repo domain.CandidateRepository,
	audit *security.SecurityLogger,
	userID string,
	incoming *domain.CandidateProfile,
) (*domain.CandidateProfile, error) {
	byEmail, err := repo.GetByEmail(ctx, incoming.Email)
	if err != nil || byEmail == nil {
		return nil, err
	}

	previousOwner := ""
	if byEmail.UserID != nil {
		previousOwner = *byEmail.UserID
	}

	overwriteProfile(byEmail, incoming)
	byEmail.UserID = &userID
	if err := repo.Update(ctx, byEmail); err != nil {
		return nil, err
	}

	if previousOwner != userID {
		audit.LogOwnershipTransferred(ctx, byEmail.ID, byEmail.Email, previousOwner, userID)
	}
	return byEmail, nil
}

func overwriteProfile(dst, src *domain.CandidateProfile) {
	dst.Name = src.Name
	dst.Email = src.Email
	dst.Phone = src.Phone
	dst.DateOfBirth = src.DateOfBirth
	dst.Region = src.Region
	dst.LinkedIn = src.LinkedIn
	dst.GitHub = src.GitHub
	dst.Domain = src.Domain
	dst.Skills = src.Skills
	dst.Experience = src.Experience
	dst.Score = src.Score
}
