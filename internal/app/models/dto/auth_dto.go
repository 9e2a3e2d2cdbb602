package dto

import "github.com/yigit/libraryhub/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required" binding:"required"`
	Password string `json:"password" validate:"required" binding:"required"`
}

// LoginResponse is the data returned by login and OTP verification.
// User carries at least the id; the rest is fetched from the profile endpoint.
type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType,omitempty" example:"Bearer"`
	ExpiresIn   int64       `json:"expiresIn,omitempty"`
	User        models.User `json:"user"`
}

// RegisterRequest represents a registration form
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50" binding:"required,min=3,max=50"`
	FullName string `json:"fullName" validate:"required" binding:"required"`
	Email    string `json:"email" validate:"required,email" binding:"required,email"`
	Password string `json:"password" validate:"required,min=8" binding:"required,min=8"`
}

// RegisterResponse holds the pending account id. Backends have been seen returning it
// both inside data and at the top level, so both are decoded.
type RegisterResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// VerifyOTPRequest confirms a registration
type VerifyOTPRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0" binding:"required,gt=0"`
	OTP    string `json:"otp" validate:"required,otp" binding:"required,len=6,numeric"`
}

// ResendOTPRequest asks for a new code
type ResendOTPRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0" binding:"required,gt=0"`
}
