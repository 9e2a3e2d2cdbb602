package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/libraryhub/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// OTPPattern is exactly six ASCII digits
	OTPPattern = `^[0-9]{6}$`

	// OTPLength is the number of cells in the verification form
	OTPLength = 6

	// MinRating and MaxRating bound a review's star value
	MinRating = 1
	MaxRating = 5
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	OTP *regexp.Regexp
}{
	OTP: regexp.MustCompile(OTPPattern),
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match what the backend and forms call the fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return IsValidOTP(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// IsValidOTP reports whether code is exactly six digits
func IsValidOTP(code string) bool {
	return CompiledPatterns.OTP.MatchString(code)
}

// Struct validates a request DTO and converts failures into an apperrors.ValidationError
func Struct(obj interface{}) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &apperrors.ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return out
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "otp":
		return apperrors.ErrInvalidOTP.Error()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
