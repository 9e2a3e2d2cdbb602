package session

import (
	"context"

	"github.com/rs/zerolog"
)

// LoginPath is where a rejected session is sent
const LoginPath = "/login"

// Navigator moves the UI to another page
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(path string) { f(path) }

// Watcher ends the session when the backend answers 401/403 to an
// authenticated call. It is installed as the API client's unauthorized hook,
// so every request is checked in one place.
type Watcher struct {
	store  *Store
	nav    Navigator
	logger zerolog.Logger
}

// NewWatcher creates a Watcher; nav may be nil
func NewWatcher(store *Store, nav Navigator, logger zerolog.Logger) *Watcher {
	return &Watcher{store: store, nav: nav, logger: logger}
}

// HandleUnauthorized implements apiclient.UnauthorizedHandler
func (w *Watcher) HandleUnauthorized(ctx context.Context, statusCode int) {
	w.logger.Warn().Int("status", statusCode).Msg("Session rejected by backend, redirecting to login")
	w.store.Invalidate(ctx)
	if w.nav != nil {
		w.nav.Navigate(LoginPath)
	}
}
