package mockapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/middleware"
)

// RefreshCookieName is the HTTP-only cookie carrying the refresh token
const RefreshCookieName = "refreshToken"

// refreshToken is the securecookie payload
type refreshToken struct {
	ID        string
	UserID    int64
	ExpiresAt int64
}

// Register creates an unverified student account and issues an OTP
func (h *Handlers) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	account, err := h.store.CreateAccount(req, models.RoleStudent, false)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if err := h.sendOTP(account.ID, account.Email); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	h.logger.Info().Int64("userId", account.ID).Str("username", account.Username).Msg("Account registered, awaiting verification")
	ok(c, http.StatusCreated, dto.RegisterResponse{UserID: account.ID, Email: account.Email})
}

// Login checks credentials and answers with an access token and a minimal user
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	account, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		h.logger.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		middleware.HandleAPIError(c, err)
		return
	}

	h.issueSession(c, &account.User)
}

// VerifyOTP confirms a registration and signs the user in
func (h *Handlers) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	user, err := h.store.VerifyOTP(req.UserID, req.OTP)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	h.logger.Info().Int64("userId", user.ID).Msg("Account verified")
	h.issueSession(c, user)
}

// ResendOTP replaces the pending code of an unverified account
func (h *Handlers) ResendOTP(c *gin.Context) {
	var req dto.ResendOTPRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	user, err := h.store.User(req.UserID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if err := h.sendOTP(user.ID, user.Email); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusOK, dto.SuccessResponse{Success: true})
}

// Refresh rotates the refresh cookie and returns a new access token
func (h *Handlers) Refresh(c *gin.Context) {
	token, err := h.readRefreshCookie(c)
	if err != nil {
		h.clearRefreshCookie(c)
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid refresh token")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := h.store.User(token.UserID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	h.store.RevokeRefresh(token.ID)
	h.issueSession(c, user)
}

// Logout revokes the refresh cookie; the access token simply expires
func (h *Handlers) Logout(c *gin.Context) {
	if token, err := h.readRefreshCookie(c); err == nil {
		h.store.RevokeRefresh(token.ID)
	}
	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// GetUser returns a profile
func (h *Handlers) GetUser(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	userID, okCaller := caller(c)
	if !okCaller {
		return
	}
	role, _ := middleware.RoleFromContext(c)
	if err := h.authz.ValidateSelfOrAdmin(userID, role, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	user, err := h.store.User(id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusOK, user)
}

func (h *Handlers) sendOTP(userID int64, email string) error {
	code, err := h.store.IssueOTP(userID)
	if err != nil {
		return err
	}
	h.logger.Info().Int64("userId", userID).Str("email", email).Str("otp", code).Msg("Verification code issued")
	if h.onOTP != nil {
		h.onOTP(userID, email, code)
	}
	return nil
}

// issueSession answers like the real backend: only id and role in the user
func (h *Handlers) issueSession(c *gin.Context, user *models.User) {
	minimal := models.User{ID: user.ID, Role: user.Role}
	accessToken, expiresIn, err := h.jwt.GenerateAccessToken(&minimal)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if err := h.setRefreshCookie(c, user.ID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	ok(c, http.StatusOK, dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        minimal,
	})
}

func (h *Handlers) setRefreshCookie(c *gin.Context, userID int64) error {
	token := refreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(h.refreshTTL) * time.Second).Unix(),
	}
	encoded, err := h.cookies.Encode(RefreshCookieName, token)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, encoded, h.refreshTTL, h.cookiePath, "", false, true)
	return nil
}

func (h *Handlers) readRefreshCookie(c *gin.Context) (*refreshToken, error) {
	raw, err := c.Cookie(RefreshCookieName)
	if err != nil {
		return nil, err
	}
	var token refreshToken
	if err := h.cookies.Decode(RefreshCookieName, raw, &token); err != nil {
		return nil, err
	}
	if time.Now().Unix() > token.ExpiresAt || h.store.RefreshRevoked(token.ID) {
		return nil, errors.New("refresh token expired or revoked")
	}
	return &token, nil
}

func (h *Handlers) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, "", -1, h.cookiePath, "", false, true)
}
