package controllers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/app/services"
	"github.com/yigit/libraryhub/internal/pkg/validation"
	"github.com/yigit/libraryhub/internal/session"
)

// VerifyOTPPath is where a fresh registration continues
const VerifyOTPPath = "/verify-otp"

// AuthController backs the login and registration forms
type AuthController struct {
	authService services.AuthService
	store       *session.Store
	notifier    Notifier
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, store *session.Store, notifier Notifier, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		store:       store,
		notifier:    notifierOrNop(notifier),
		logger:      logger,
	}
}

// LoginResult is the outcome of a successful login
type LoginResult struct {
	User     *models.User
	Redirect string
}

// Login validates the form, signs in, enriches the profile and picks the
// landing page for the user's role
func (c *AuthController) Login(ctx context.Context, req dto.LoginRequest) (*LoginResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	resp, err := c.authService.Login(ctx, req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Login rejected")
		return nil, err
	}

	user, err := c.store.Establish(ctx, resp.AccessToken, resp.User, c.authService.Profile)
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(NotifySuccess, fmt.Sprintf("Welcome back, %s", user.DisplayName()))
	return &LoginResult{User: user, Redirect: user.Role.HomePath()}, nil
}

// RegisterResult carries the pending account id into OTP verification
type RegisterResult struct {
	UserID   int64
	Email    string
	Redirect string
}

// Register validates the form and creates a pending account
func (c *AuthController) Register(ctx context.Context, req dto.RegisterRequest) (*RegisterResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	resp, err := c.authService.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	email := resp.Email
	if email == "" {
		email = req.Email
	}
	c.notifier.Notify(NotifyInfo, "A verification code has been sent to "+email)
	return &RegisterResult{
		UserID:   resp.UserID,
		Email:    email,
		Redirect: fmt.Sprintf("%s?userId=%d", VerifyOTPPath, resp.UserID),
	}, nil
}

// Logout revokes the session on the backend and always clears it locally
func (c *AuthController) Logout(ctx context.Context) error {
	if c.store.IsAuthenticated() {
		if err := c.authService.Logout(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("Backend logout failed, clearing local session anyway")
		}
	}
	return c.store.Logout(ctx)
}
