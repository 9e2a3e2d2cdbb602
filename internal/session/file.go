package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/pkg/apperrors"
)

// FileRepository stores the session as one JSON object on disk, the CLI's
// equivalent of browser local storage. The file is rewritten atomically.
type FileRepository struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewFileRepository creates the parent directory if needed
func NewFileRepository(path string, logger zerolog.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileRepository{path: path, logger: logger}, nil
}

// Path returns the backing file location
func (r *FileRepository) Path() string {
	return r.path
}

// Get implements Repository
func (r *FileRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", apperrors.ErrKeyNotFound
	}
	return v, nil
}

// Set implements Repository
func (r *FileRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return err
	}
	data[key] = value
	return r.save(data)
}

// Delete implements Repository
func (r *FileRepository) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(data, k)
	}
	return r.save(data)
}

func (r *FileRepository) load() (map[string]string, error) {
	data := make(map[string]string)

	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		// unreadable content counts as no session; the next write replaces it
		r.logger.Warn().Err(err).Str("path", r.path).Msg("Session file is corrupt, starting signed out")
		return make(map[string]string), nil
	}
	return data, nil
}

func (r *FileRepository) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
