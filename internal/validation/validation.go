package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/astrahq/auth-service/internal/dto"
	apperrors "github.com/astrahq/auth-service/internal/errors"
	"github.com/go-playground/validator/v10"
)

// Validator runs one explicit validation pass per operation and reports
// failures as field-level messages, so callers get the whole picture in a
// single 400 response instead of the first broken rule.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	// Report struct fields under their wire names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate}
}

func (v *Validator) Signup(req *dto.SignupRequest) *apperrors.ValidationError {
	return v.check(req)
}

func (v *Validator) Login(req *dto.LoginRequest) *apperrors.ValidationError {
	return v.check(req)
}

func (v *Validator) ChangePassword(req *dto.ChangePasswordRequest) *apperrors.ValidationError {
	return v.check(req)
}

func (v *Validator) ResetCreate(req *dto.ResetCreateRequest) *apperrors.ValidationError {
	return v.check(req)
}

func (v *Validator) ResetApply(req *dto.ResetApplyRequest) *apperrors.ValidationError {
	return v.check(req)
}

// check runs struct validation and converts the result into a field error
// map. Returns nil when every rule passed.
func (v *Validator) check(req any) *apperrors.ValidationError {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		ve := apperrors.NewValidationError()
		ve.Add("request", "The request could not be validated.")
		return ve
	}

	ve := apperrors.NewValidationError()
	for _, fe := range validationErrors {
		field, message := translate(fe)
		ve.Add(field, message)
	}
	return ve
}

// translate maps a failed rule to a message in the wording clients expect.
// Confirmation mismatches are reported against the confirmed field, not the
// *_confirmation input.
func translate(fe validator.FieldError) (string, string) {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field, fmt.Sprintf("The %s field is required.", field)
	case "email":
		return field, fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		return field, fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "max":
		return field, fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "eqfield":
		confirmed := strings.TrimSuffix(field, "_confirmation")
		return confirmed, fmt.Sprintf("The %s confirmation does not match.", confirmed)
	default:
		return field, fmt.Sprintf("The %s is invalid.", field)
	}
}
