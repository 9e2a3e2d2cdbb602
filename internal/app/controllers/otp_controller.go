package controllers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/app/services"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/validation"
	"github.com/yigit/libraryhub/internal/session"
)

// OTPState is the verification form state
type OTPState string

const (
	OTPIdle      OTPState = "idle"
	OTPSubmitted OTPState = "submitted"
	OTPSuccess   OTPState = "success"
	OTPFailure   OTPState = "failure"
)

// ResendCooldown is how long resend stays disabled after use
const ResendCooldown = 60 * time.Second

// ResendFunc requests a new code for a pending account
type ResendFunc func(ctx context.Context, userID int64) error

// OTPController drives the six-cell verification form
type OTPController struct {
	userID      int64
	authService services.AuthService
	store       *session.Store
	notifier    Notifier
	logger      zerolog.Logger
	now         func() time.Time
	resend      ResendFunc

	mu            sync.Mutex
	cells         []string
	state         OTPState
	lastErr       error
	cooldownUntil time.Time
}

// OTPOption configures an OTPController
type OTPOption func(*OTPController)

// WithClock replaces time.Now for the resend cooldown
func WithClock(now func() time.Time) OTPOption {
	return func(c *OTPController) { c.now = now }
}

// WithResend wires resend to a backend call; without it resend only shows a notification
func WithResend(fn ResendFunc) OTPOption {
	return func(c *OTPController) { c.resend = fn }
}

// NewOTPController creates the form for a pending account
func NewOTPController(userID int64, authService services.AuthService, store *session.Store, notifier Notifier, logger zerolog.Logger, opts ...OTPOption) *OTPController {
	c := &OTPController{
		userID:      userID,
		authService: authService,
		store:       store,
		notifier:    notifierOrNop(notifier),
		logger:      logger,
		now:         time.Now,
		cells:       make([]string, validation.OTPLength),
		state:       OTPIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input puts one digit into cell i and returns the cell to focus next.
// Anything other than a single digit is ignored and focus stays.
func (c *OTPController) Input(i int, ch string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.cells) {
		return clampIndex(i, len(c.cells))
	}
	if len(ch) != 1 || ch[0] < '0' || ch[0] > '9' {
		return i
	}
	c.cells[i] = ch
	if i < len(c.cells)-1 {
		return i + 1
	}
	return i
}

// Backspace clears cell i and returns the previous cell to focus
func (c *OTPController) Backspace(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.cells) {
		return clampIndex(i, len(c.cells))
	}
	c.cells[i] = ""
	if i > 0 {
		return i - 1
	}
	return 0
}

// Paste fills the cells from a pasted code. Only an all-digit string is
// accepted; extra digits are dropped. Returns the cell to focus.
func (c *OTPController) Paste(s string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	s = strings.TrimSpace(s)
	if s == "" || strings.Trim(s, "0123456789") != "" {
		return 0
	}
	if len(s) > len(c.cells) {
		s = s[:len(c.cells)]
	}
	for i := range c.cells {
		c.cells[i] = ""
		if i < len(s) {
			c.cells[i] = s[i : i+1]
		}
	}
	if len(s) >= len(c.cells) {
		return len(c.cells) - 1
	}
	return len(s)
}

// Code joins the cells
func (c *OTPController) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.cells, "")
}

// State returns the form state
func (c *OTPController) State() OTPState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the last failed submit
func (c *OTPController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Submit verifies the code. An incomplete code is rejected without a request.
// On success the session is established and the role landing page returned.
func (c *OTPController) Submit(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state == OTPSubmitted {
		c.mu.Unlock()
		return "", apperrors.ErrConflict
	}
	req := dto.VerifyOTPRequest{UserID: c.userID, OTP: strings.Join(c.cells, "")}
	if !validation.IsValidOTP(req.OTP) {
		err := apperrors.NewValidationError("otp", apperrors.ErrInvalidOTP)
		c.lastErr = err
		c.mu.Unlock()
		return "", err
	}
	if err := validation.Struct(req); err != nil {
		c.lastErr = err
		c.mu.Unlock()
		return "", err
	}
	c.state = OTPSubmitted
	c.lastErr = nil
	c.mu.Unlock()

	redirect, err := c.verify(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = OTPFailure
		c.lastErr = err
		c.logger.Warn().Err(err).Int64("userId", c.userID).Msg("OTP verification failed")
		return "", err
	}
	c.state = OTPSuccess
	return redirect, nil
}

func (c *OTPController) verify(ctx context.Context, req dto.VerifyOTPRequest) (string, error) {
	resp, err := c.authService.VerifyOTP(ctx, req)
	if err != nil {
		return "", err
	}
	user, err := c.store.Establish(ctx, resp.AccessToken, resp.User, c.authService.Profile)
	if err != nil {
		return "", err
	}
	c.notifier.Notify(NotifySuccess, "Your account is verified")
	return user.Role.HomePath(), nil
}

// Resend clears the cells and starts the cooldown. It fails with
// ErrResendCooldown while the previous cooldown is running.
func (c *OTPController) Resend(ctx context.Context) error {
	c.mu.Lock()
	now := c.now()
	if now.Before(c.cooldownUntil) {
		c.mu.Unlock()
		return apperrors.ErrResendCooldown
	}
	for i := range c.cells {
		c.cells[i] = ""
	}
	c.state = OTPIdle
	c.lastErr = nil
	c.cooldownUntil = now.Add(ResendCooldown)
	resend := c.resend
	c.mu.Unlock()

	if resend == nil {
		c.notifier.Notify(NotifyInfo, "A new code has been sent")
		return nil
	}

	if err := resend(ctx, c.userID); err != nil {
		c.mu.Lock()
		c.cooldownUntil = time.Time{}
		c.mu.Unlock()
		return err
	}
	c.notifier.Notify(NotifyInfo, "A new code has been sent")
	return nil
}

// CooldownRemaining is the time left before resend is enabled again
func (c *OTPController) CooldownRemaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if left := c.cooldownUntil.Sub(c.now()); left > 0 {
		return left
	}
	return 0
}

// CanResend reports whether the cooldown has elapsed
func (c *OTPController) CanResend() bool {
	return c.CooldownRemaining() == 0
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
