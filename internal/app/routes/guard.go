package routes

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/session"
)

// Client page paths
const (
	PathHome      = "/"
	PathLogin     = session.LoginPath
	PathRegister  = "/register"
	PathVerifyOTP = "/verify-otp"
)

var publicPaths = []string{PathHome, PathLogin, PathRegister, PathVerifyOTP}

// roleAreas maps a path prefix to the only role allowed under it
var roleAreas = map[string]models.RoleType{
	"/librarian": models.RoleLibrarian,
	"/admin":     models.RoleAdmin,
}

// SessionView is what the guard needs to know about the session
type SessionView interface {
	CurrentUser() *models.User
	IsAuthenticated() bool
}

// Decision is the outcome of a navigation check
type Decision struct {
	Allowed  bool
	Redirect string
}

// Guard gates client pages by login state and role
type Guard struct {
	session SessionView
	logger  zerolog.Logger
}

// NewGuard creates a new Guard
func NewGuard(session SessionView, logger zerolog.Logger) *Guard {
	return &Guard{session: session, logger: logger}
}

// Check decides whether the current session may open path. Anonymous users
// are sent to the login page and users in the wrong area to their role home.
func (g *Guard) Check(path string) Decision {
	path = cleanPath(path)

	var user *models.User
	if g.session.IsAuthenticated() {
		user = g.session.CurrentUser()
	}

	if isPublic(path) {
		if user != nil && (path == PathLogin || path == PathRegister) {
			return redirect(user.Role.HomePath())
		}
		return Decision{Allowed: true}
	}

	if user == nil {
		g.logger.Debug().Str("path", path).Msg("Anonymous navigation blocked")
		return redirect(PathLogin)
	}

	for prefix, role := range roleAreas {
		if underPrefix(path, prefix) && user.Role != role {
			g.logger.Debug().Str("path", path).Str("role", string(user.Role)).Msg("Role not allowed in area")
			return redirect(user.Role.HomePath())
		}
	}
	return Decision{Allowed: true}
}

func redirect(to string) Decision {
	return Decision{Allowed: false, Redirect: to}
}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func cleanPath(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		raw = u.Path
	}
	if raw == "" {
		return PathHome
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	if len(raw) > 1 {
		raw = strings.TrimRight(raw, "/")
		if raw == "" {
			raw = PathHome
		}
	}
	return raw
}
