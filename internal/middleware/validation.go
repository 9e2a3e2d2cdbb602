package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/libraryhub/internal/app/models/dto"
)

// BindJSON binds and validates the body using the binding tags. On failure it
// writes a 400 with the first field error and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(validationDetail(err)))
		return false
	}
	return true
}

func validationDetail(err error) *dto.ErrorDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format").WithDetails(err.Error())
	}

	fe := fieldErrs[0]
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, formatValidationError(fe)).WithField(fe.Field())
	if len(fieldErrs) > 1 {
		all := make([]string, 0, len(fieldErrs))
		for _, e := range fieldErrs {
			all = append(all, formatValidationError(e))
		}
		detail = detail.WithDetails(all)
	}
	return detail
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "len":
		return e.Field() + " must be exactly " + e.Param() + " characters"
	case "numeric":
		return e.Field() + " must contain digits only"
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
