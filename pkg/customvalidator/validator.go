package customvalidator

import (
	"regexp"

	"employee-system/pkg/constants"

	"github.com/go-playground/validator/v10"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,19}$`)
)

// RegisterCustomValidations registers the project rules on v.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("phone", isPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("role_name", isKnownRoleName); err != nil {
		return err
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// Empty phone numbers pass; combine with required when mandatory.
func isPhoneNumber(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || phoneRegex.MatchString(s)
}

// Only the shape is checked here. The role catalog decides whether the role exists.
func isKnownRoleName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, r := range constants.Roles {
		if s == r {
			return true
		}
	}
	return false
}
