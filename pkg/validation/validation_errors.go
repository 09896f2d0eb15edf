package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly French labels
var FieldLabels = map[string]string{
	// CVSubmission fields
	"Name":        "Nom",
	"Email":       "Email",
	"Phone":       "Téléphone",
	"DateOfBirth": "Date de naissance",
	"Region":      "Région",
	"LinkedIn":    "LinkedIn",
	"GitHub":      "GitHub",
	"Domain":      "Domaine",
	"Skills":      "Compétences",
	"OtherSkill":  "Autre compétence",
	"Experience":  "Expérience",

	// Account fields
	"Username": "Nom d'utilisateur",
	"Password": "Mot de passe",
	"Role":     "Rôle",
	"Address":  "Adresse",
	"City":     "Ville",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// HasRequiredFailure reports whether any field failed the "required" rule.
func HasRequiredFailure(err error) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			return true
		}
	}
	return false
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s : champ obligatoire", label)
	case "min":
		return fmt.Sprintf("%s : minimum %s", label, param)
	case "max":
		return fmt.Sprintf("%s : maximum %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s : doit être l'une des valeurs %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s : format d'email invalide", label)
	case "cv_domain":
		return fmt.Sprintf("%s : domaine professionnel inconnu", label)
	case "iso_date":
		return fmt.Sprintf("%s : date attendue au format AAAA-MM-JJ", label)
	default:
		return fmt.Sprintf("%s : validation échouée (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
