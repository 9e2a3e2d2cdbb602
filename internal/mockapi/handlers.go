// Package mockapi is an in-memory development backend that answers the same
// REST contract as the library API, so the client and CLI have a real peer.
package mockapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog"

	appauth "github.com/yigit/libraryhub/internal/app/auth"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/middleware"
	"github.com/yigit/libraryhub/internal/pkg/auth"
	"github.com/yigit/libraryhub/internal/pkg/filestorage"
)

// OTPSink receives freshly issued verification codes in place of an email
type OTPSink func(userID int64, email, code string)

// Options configures Handlers
type Options struct {
	Store      *Store
	JWT        *auth.JWTService
	Files      filestorage.FileStorage
	HashKey    []byte
	BlockKey   []byte
	RefreshTTL int
	// CookiePath scopes the refresh cookie, normally the API base path
	CookiePath string
	OnOTP      OTPSink
	Logger     zerolog.Logger
}

// Handlers serves every endpoint of the development backend
type Handlers struct {
	store      *Store
	jwt        *auth.JWTService
	files      filestorage.FileStorage
	authz      *appauth.AuthorizationService
	cookies    *securecookie.SecureCookie
	cookiePath string
	refreshTTL int
	onOTP      OTPSink
	logger     zerolog.Logger
}

// NewHandlers creates Handlers. Missing cookie keys are generated, which
// invalidates refresh cookies across restarts.
func NewHandlers(opts Options) (*Handlers, error) {
	if opts.Store == nil || opts.JWT == nil || opts.Files == nil {
		return nil, errors.New("mockapi: store, jwt and files are required")
	}

	hashKey := opts.HashKey
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(64)
	}
	blockKey := opts.BlockKey
	if len(blockKey) == 0 {
		blockKey = securecookie.GenerateRandomKey(32)
	}
	if hashKey == nil || blockKey == nil {
		return nil, errors.New("mockapi: failed to generate cookie keys")
	}
	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return nil, errors.New("mockapi: cookie block key must be 16, 24 or 32 bytes")
	}

	refreshTTL := opts.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * 60 * 60
	}
	cookiePath := opts.CookiePath
	if cookiePath == "" {
		cookiePath = "/"
	}

	cookies := securecookie.New(hashKey, blockKey)
	cookies.MaxAge(refreshTTL)

	return &Handlers{
		store:      opts.Store,
		jwt:        opts.JWT,
		files:      opts.Files,
		authz:      appauth.NewAuthorizationService(opts.Store),
		cookies:    cookies,
		cookiePath: cookiePath,
		refreshTTL: refreshTTL,
		onOTP:      opts.OnOTP,
		logger:     opts.Logger,
	}, nil
}

// Store returns the backing store, used by seeding
func (h *Handlers) Store() *Store {
	return h.store
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.APIResponse{Data: data})
}

// pathID parses a positive numeric path parameter, writing a 400 otherwise
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name).WithField(name)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// caller returns the authenticated user id and role set by JWTAuth
func caller(c *gin.Context) (int64, bool) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
	return id, ok
}
