// Package validation holds the form rules of the PatinaPRO client. All
// checks are pure functions of the current field values.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/patinapro/internal/client/models"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,8}$`)
	passwordRe = regexp.MustCompile(`^\d{4}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("username", func(fl validator.FieldLevel) bool {
		return IsValidUsername(fl.Field().String())
	})
	must("pin", func(fl validator.FieldLevel) bool {
		return IsValidPassword(fl.Field().String())
	})
	must("education", func(fl validator.FieldLevel) bool {
		return models.EducationLevel(fl.Field().String()).Valid()
	})

	return v
}

// IsValidUsername reports whether s has 3 to 8 ASCII letters or digits.
func IsValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// IsValidPassword reports whether s is exactly four decimal digits.
func IsValidPassword(s string) bool {
	return passwordRe.MatchString(s)
}

func IsValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

func PasswordsMatch(a, b string) bool {
	return a == b
}
