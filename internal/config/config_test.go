package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// chdir switches the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1/library", cfg.BaseURL())
	assert.Equal(t, SessionDriverFile, cfg.Session.Driver)
	assert.Equal(t, "light", cfg.Preferences.Theme)
	assert.Equal(t, "en", cfg.Preferences.Locale)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
api:
  origin: https://library.example.edu/
  timeout: 15s
session:
  driver: memory
logging:
  level: debug
`)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("SESSION_MAX_CONNS", "9")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://library.example.edu/api/v1/library", cfg.BaseURL())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
	assert.Equal(t, SessionDriverMemory, cfg.Session.Driver)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 9, cfg.Session.MaxConns)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		wantErr string
	}{
		{name: "relative origin", body: "api:\n  origin: /api\n", wantErr: "api origin must be an absolute URL"},
		{name: "bad timeout", body: "api:\n  timeout: soon\n", wantErr: "invalid api timeout format"},
		{name: "unknown driver", body: "session:\n  driver: redis\n", wantErr: `unknown session driver "redis"`},
		{name: "postgres without dsn", body: "session:\n  driver: postgres\n", wantErr: "session postgres dsn is required"},
		{name: "bad env int", body: "", env: map[string]string{"SESSION_MAX_CONNS": "many"}, wantErr: "invalid integer format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSampleConfigHasNoRequestTimeout(t *testing.T) {
	sample, err := filepath.Abs(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	chdir(t, t.TempDir())

	cfg, err := LoadConfig(sample)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout())
	assert.Equal(t, 587, cfg.SMTP.Port)
}
