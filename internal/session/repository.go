// Package session owns the signed-in state of the client: the access token,
// the user profile and the display preferences, persisted through a Repository.
package session

import (
	"context"
	"sync"

	"github.com/yigit/libraryhub/internal/pkg/apperrors"
)

// Persisted keys
const (
	KeyAccessToken = "accessToken"
	KeyUser        = "user"
	KeyTheme       = "theme"
	KeyLocale      = "locale"
)

// Repository is a small key/value store for session state.
// Get returns apperrors.ErrKeyNotFound for absent keys. Writes are last-writer-wins.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// MemoryRepository keeps state for the life of the process
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryRepository creates an empty MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string]string)}
}

// Get implements Repository
func (r *MemoryRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return "", apperrors.ErrKeyNotFound
	}
	return v, nil
}

// Set implements Repository
func (r *MemoryRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = value
	return nil
}

// Delete implements Repository
func (r *MemoryRepository) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.data, k)
	}
	return nil
}
