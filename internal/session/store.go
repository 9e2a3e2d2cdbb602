package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/auth"
)

// State of the session
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Preferences are display settings reset on every logout
type Preferences struct {
	Theme  string
	Locale string
}

// ProfileFetcher loads the full profile once a token is in place
type ProfileFetcher func(ctx context.Context, userID int64) (*models.User, error)

// Store holds the current user and access token. It is the TokenSource and
// LocaleSource of the API client. Safe for concurrent use.
type Store struct {
	repo     Repository
	defaults Preferences
	logger   zerolog.Logger
	now      func() time.Time

	// writeMu serializes repository writes of Establish and clear
	writeMu sync.Mutex

	mu    sync.RWMutex
	token string
	user  *models.User
	prefs Preferences
}

// NewStore creates an anonymous store; call Restore to load persisted state
func NewStore(repo Repository, defaults Preferences, logger zerolog.Logger) *Store {
	return &Store{
		repo:     repo,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
		prefs:    defaults,
	}
}

// Restore loads persisted state. A token whose exp claim has passed, or a token
// without a readable user, is discarded and the store stays anonymous.
func (s *Store) Restore(ctx context.Context) error {
	prefs := s.defaults
	if v, err := s.get(ctx, KeyTheme); err != nil {
		return err
	} else if v != "" {
		prefs.Theme = v
	}
	if v, err := s.get(ctx, KeyLocale); err != nil {
		return err
	} else if v != "" {
		prefs.Locale = v
	}

	token, err := s.get(ctx, KeyAccessToken)
	if err != nil {
		return err
	}
	rawUser, err := s.get(ctx, KeyUser)
	if err != nil {
		return err
	}

	var user *models.User
	if token != "" && rawUser != "" {
		var u models.User
		if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
			s.logger.Warn().Err(err).Msg("Persisted user is unreadable, discarding session")
			token = ""
		} else {
			user = &u
		}
	}

	if token != "" {
		if exp, ok := auth.TokenExpiry(token); ok && !exp.After(s.now()) {
			s.logger.Info().Time("expiredAt", exp).Msg("Persisted access token has expired")
			token = ""
		}
	}

	if token == "" || user == nil {
		if err := s.repo.Delete(ctx, KeyAccessToken, KeyUser); err != nil {
			return fmt.Errorf("failed to clear stale session: %w", err)
		}
		token, user = "", nil
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.prefs = prefs
	s.mu.Unlock()

	s.logger.Debug().Str("state", string(s.State())).Msg("Session restored")
	return nil
}

// Establish starts an authenticated session from a login or OTP verification
// response. The token is stored first, then fetch enriches the profile; if
// that fails the minimal user from the response is kept. The returned user is
// never nil: when the session ended while the profile was loading (the backend
// rejected the new token, or a logout ran) ErrSessionExpired is returned.
func (s *Store) Establish(ctx context.Context, token string, minimal models.User, fetch ProfileFetcher) (*models.User, error) {
	if token == "" || minimal.ID <= 0 {
		return nil, fmt.Errorf("%w: login response is missing the access token or user id", apperrors.ErrNotAuthenticated)
	}

	s.writeMu.Lock()
	if err := s.persist(ctx, token, &minimal); err != nil {
		s.writeMu.Unlock()
		return nil, err
	}
	s.mu.Lock()
	s.token = token
	s.user = &minimal
	s.mu.Unlock()
	s.writeMu.Unlock()
	s.logger.Info().Int64("userId", minimal.ID).Msg("Session established")

	user := &minimal
	if fetch != nil {
		profile, err := fetch(ctx, minimal.ID)
		if err != nil || profile == nil {
			s.logger.Warn().Err(err).Int64("userId", minimal.ID).Msg("Profile enrichment failed, keeping login user")
		} else {
			if profile.Role == "" {
				profile.Role = minimal.Role
			}
			user = profile
		}
	}

	// writeMu orders this write against clear, so a logout can never be undone
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.AccessToken() != token {
		s.logger.Warn().Int64("userId", minimal.ID).Msg("Session ended while the profile was loading")
		return nil, fmt.Errorf("%w: session ended during sign-in", apperrors.ErrSessionExpired)
	}
	if user != &minimal {
		if err := s.persist(ctx, token, user); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.user = user
		s.mu.Unlock()
	}
	return s.CurrentUser(), nil
}

// Logout ends the session and resets preferences
func (s *Store) Logout(ctx context.Context) error {
	return s.clear(ctx, "logout")
}

// Invalidate ends the session after the backend rejected the token
func (s *Store) Invalidate(ctx context.Context) {
	if err := s.clear(ctx, "token rejected"); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear persisted session")
	}
}

func (s *Store) clear(ctx context.Context, reason string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.user = nil
	s.prefs = s.defaults
	s.mu.Unlock()

	if wasAuthenticated {
		s.logger.Info().Str("reason", reason).Msg("Session ended")
	}

	var errs []error
	if err := s.repo.Delete(ctx, KeyAccessToken, KeyUser); err != nil {
		errs = append(errs, err)
	}
	if err := s.repo.Set(ctx, KeyTheme, s.defaults.Theme); err != nil {
		errs = append(errs, err)
	}
	if err := s.repo.Set(ctx, KeyLocale, s.defaults.Locale); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// AccessToken implements apiclient.TokenSource
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Locale implements apiclient.LocaleSource
func (s *Store) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Locale
}

// Preferences returns the current display settings
func (s *Store) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetTheme persists a theme choice
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if err := s.repo.Set(ctx, KeyTheme, theme); err != nil {
		return err
	}
	s.mu.Lock()
	s.prefs.Theme = theme
	s.mu.Unlock()
	return nil
}

// SetLocale persists a locale choice
func (s *Store) SetLocale(ctx context.Context, locale string) error {
	if err := s.repo.Set(ctx, KeyLocale, locale); err != nil {
		return err
	}
	s.mu.Lock()
	s.prefs.Locale = locale
	s.mu.Unlock()
	return nil
}

// CurrentUser returns a copy of the signed-in user, or nil
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// State reports whether a session is active
func (s *Store) State() State {
	if s.IsAuthenticated() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// IsAuthenticated reports whether both a token and a user are present
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

func (s *Store) persist(ctx context.Context, token string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.repo.Set(ctx, KeyAccessToken, token); err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}
	if err := s.repo.Set(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, key)
	if errors.Is(err, apperrors.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %s: %w", key, err)
	}
	return v, nil
}
