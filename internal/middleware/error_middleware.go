package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/logger"
)

// HandleAPIError maps an error to its status and writes the error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status, code, message = http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		status, code, message = http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, code, message = http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid username or password"
	case errors.Is(err, apperrors.ErrAccountNotVerified):
		status, code, message = http.StatusForbidden, dto.ErrorCodeUnauthorized, "Account is not verified"
	case errors.Is(err, apperrors.ErrOTPMismatch):
		status, code, message = http.StatusBadRequest, dto.ErrorCodeInvalidOTP, "Invalid or expired verification code"
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		status, code, message = http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		status, code, message = http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err.Error()
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
