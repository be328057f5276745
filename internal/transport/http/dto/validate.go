package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("verification_code", validateVerificationCode)
}

// validateVerificationCode accepts exactly six digits.
func validateVerificationCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	// Codes never start with 0; the generator floor is 100000.
	return code[0] != '0'
}

// check runs struct-tag validation and maps the first failure to a
// domain error.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInvalidField("request", "invalid payload")
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "email":
		return domain.ErrInvalidField(field, "invalid format")
	case "min":
		return domain.ErrInvalidField(field, "too short (min "+fe.Param()+")")
	case "max":
		return domain.ErrInvalidField(field, "too long (max "+fe.Param()+")")
	case "verification_code":
		return domain.ErrInvalidField(field, "must be a 6-digit code")
	case "oneof":
		return domain.ErrInvalidField(field, "must be one of: "+fe.Param())
	case "gt", "gte":
		return domain.ErrInvalidField(field, "out of range")
	default:
		return domain.ErrInvalidField(field, "invalid value")
	}
}
