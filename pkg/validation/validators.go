package validation

import (
	"time"

	"cv-platform-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the YYYY-MM-DD form accepted by the iso_date rule.
const DateLayout = "2006-01-02"

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("cv_domain", ValidDomain)
	_ = v.RegisterValidation("iso_date", ISODate)
}

// ValidDomain accepts only the fixed professional domains.
func ValidDomain(fl validator.FieldLevel) bool {
	return domain.ProfessionalDomain(fl.Field().String()).Valid()
}

// ISODate validates a YYYY-MM-DD date. Empty values are left to "required".
func ISODate(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := time.Parse(DateLayout, val)
	return err == nil
}
