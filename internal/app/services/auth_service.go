package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
)

// AuthService covers login, registration, OTP confirmation and the profile endpoint
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (*dto.LoginResponse, error)
	ResendOTP(ctx context.Context, userID int64) error
	Profile(ctx context.Context, userID int64) (*models.User, error)
	Logout(ctx context.Context) error
}

// ErrMissingUserID is returned when a registration answer has no usable user id
var ErrMissingUserID = errors.New("registration response is missing the user id")

type authService struct {
	exec   Executor
	logger zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(exec Executor, logger zerolog.Logger) AuthService {
	return &authService{exec: exec, logger: logger}
}

// Login exchanges credentials for an access token; the refresh cookie lands in the client's jar
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	err := s.exec.Do(ctx, newRequest(http.MethodPost, "/auth/login", req, "Login failed"), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// registerEnvelope accepts the user id both inside data and at the top level
type registerEnvelope struct {
	Data *dto.RegisterResponse `json:"data"`
	dto.RegisterResponse
}

// Register creates a pending account; the returned id is needed for OTP verification
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	r := newRequest(http.MethodPost, "/auth/register", req, "Registration failed")
	r.Raw = true

	var env registerEnvelope
	if err := s.exec.Do(ctx, r, &env); err != nil {
		return nil, err
	}

	resp := env.RegisterResponse
	if env.Data != nil && env.Data.UserID > 0 {
		resp = *env.Data
	}
	if resp.UserID <= 0 {
		s.logger.Warn().Str("username", req.Username).Msg("Registration response carried no user id")
		return nil, ErrMissingUserID
	}
	return &resp, nil
}

// VerifyOTP confirms the registration code and returns a login payload
func (s *authService) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	err := s.exec.Do(ctx, newRequest(http.MethodPost, "/auth/verify-otp", req, "Verification failed"), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResendOTP asks the backend to send a fresh code
func (s *authService) ResendOTP(ctx context.Context, userID int64) error {
	req := newRequest(http.MethodPost, "/auth/resend-otp", dto.ResendOTPRequest{UserID: userID}, "Could not resend the code")
	return s.exec.Do(ctx, req, nil)
}

// Profile fetches the full user record
func (s *authService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	req := authRequest(http.MethodGet, idPath("/users/%d", userID), nil, "Could not load profile")

	var user models.User
	if err := s.exec.Do(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the refresh cookie on the backend
func (s *authService) Logout(ctx context.Context) error {
	return s.exec.Do(ctx, authRequest(http.MethodPost, "/auth/logout", nil, "Logout failed"), nil)
}
