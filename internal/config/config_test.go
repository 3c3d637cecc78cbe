package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, "sipcall.db", cfg.StorageDSN)
	assert.Equal(t, "reject", cfg.BusyPolicy)
	assert.False(t, cfg.StrictInput)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sipcall.yaml")
	content := `
http:
  port: "9090"
storage:
  backend: memory
session:
  busy_policy: preempt
directory:
  strict_input: true
log:
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("SIPCALL_HTTP_PORT", "7070")
	t.Setenv("SIPCALL_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "preempt", cfg.BusyPolicy)
	assert.True(t, cfg.StrictInput)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Port:           "8080",
			StorageBackend: BackendSQLite,
			StorageDSN:     "x.db",
			BusyPolicy:     "reject",
			LogFormat:      "json",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.StorageBackend = "mongo" }, true},
		{"postgres without dsn", func(c *Config) { c.StorageBackend = BackendPostgres; c.StorageDSN = "" }, true},
		{"firestore without project", func(c *Config) { c.StorageBackend = BackendFirestore }, true},
		{"firestore with project", func(c *Config) { c.StorageBackend = BackendFirestore; c.FirestoreProject = "p" }, false},
		{"memory ignores dsn", func(c *Config) { c.StorageBackend = BackendMemory; c.StorageDSN = "" }, false},
		{"bad busy policy", func(c *Config) { c.BusyPolicy = "queue" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
