// Package pdf renders candidate profiles into CV documents.
package pdf

import (
	"errors"
	"strings"

	"cv-platform-backend/internal/domain"
)

var (
	ErrMissingName  = errors.New("données de candidat invalides: nom manquant")
	ErrRenderFailed = errors.New("render failed")
)

// Placeholders used for absent optional fields.
const (
	PlaceholderMasc = "Non spécifié"
	PlaceholderFem  = "Non spécifiée"
	NoSkills        = "Aucune compétence spécifiée"
)

// Row is one label/value line of the profile table.
type Row struct {
	Label string
	Value string
}

// CVDocument is the render input. Every field is resolved at construction:
// Name is mandatory and every other field already holds its placeholder.
type CVDocument struct {
	Name       string
	Email      string
	Phone      string
	Region     string
	Domain     string
	LinkedIn   string
	GitHub     string
	Skills     []string
	Experience string
}

// NewCVDocument builds a document from a profile snapshot.
func NewCVDocument(p *domain.CandidateProfile) (CVDocument, error) {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return CVDocument{}, ErrMissingName
	}

	doc := CVDocument{
		Name:       p.Name,
		Email:      orPlaceholder(p.Email, PlaceholderMasc),
		Phone:      orPlaceholder(p.Phone, PlaceholderMasc),
		Region:     orPlaceholder(p.Region, PlaceholderFem),
		Domain:     orPlaceholder(string(p.Domain), PlaceholderMasc),
		LinkedIn:   orPlaceholder(deref(p.LinkedIn), PlaceholderMasc),
		GitHub:     orPlaceholder(deref(p.GitHub), PlaceholderMasc),
		Experience: orPlaceholder(p.Experience, PlaceholderFem),
	}

	for _, s := range p.Skills {
		if s = strings.TrimSpace(s); s != "" {
			doc.Skills = append(doc.Skills, s)
		}
	}
	if len(doc.Skills) == 0 {
		doc.Skills = []string{NoSkills}
	}
	return doc, nil
}

// Title is the document header line.
func (d CVDocument) Title() string {
	return "CV de " + d.Name
}

// Rows returns the contact/profile table in display order.
func (d CVDocument) Rows() []Row {
	return []Row{
		{"Email", d.Email},
		{"Téléphone", d.Phone},
		{"Région", d.Region},
		{"Domaine", d.Domain},
		{"LinkedIn", d.LinkedIn},
		{"GitHub", d.GitHub},
	}
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
