package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("AGORA_CONFIG", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("AGORA_CONFIG", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("POSTS_PAGE_SIZE", "7")
	t.Setenv("EDIT_WINDOW", "10m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 7, cfg.Pagination.PostsPageSize)
	assert.Equal(t, 5, cfg.Pagination.CommentsPageSize)
	assert.Equal(t, 10*time.Minute, cfg.EditWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_ProxySettings(t *testing.T) {
	t.Setenv("AGORA_CONFIG", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TRUST_PROXY", "")
	t.Setenv("PUBLIC_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.TrustProxy)
	u, err := cfg.ParsedPublicURL()
	require.NoError(t, err)
	assert.Nil(t, u)

	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("PUBLIC_URL", "https://agora.example")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.TrustProxy)
	u, err = cfg.ParsedPublicURL()
	require.NoError(t, err)
	assert.Equal(t, "agora.example", u.Host)
}

func TestLoad_InvalidEnvValueKeepsDefault(t *testing.T) {
	t.Setenv("AGORA_CONFIG", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("USERS_PAGE_SIZE", "ten")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Pagination.UsersPageSize)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agora.yaml")
	content := `
database_url: postgres://file/db
port: "9000"
auth:
  jwt_secret: from-file
pagination:
  posts_page_size: 20
  comments_page_size: 5
  users_page_size: 10
  max_page_size: 50
worker:
  poll_interval: 1s
  batch_size: 3
  lease: 30s
  max_attempts: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("AGORA_CONFIG", path)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
	assert.Equal(t, "9100", cfg.Port, "env wins over file")
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 20, cfg.Pagination.PostsPageSize)
	assert.Equal(t, 50, cfg.Pagination.MaxPageSize)
	assert.Equal(t, time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, 2, cfg.Worker.MaxAttempts)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"page size above cap", func(c *Config) { c.Pagination.PostsPageSize = 500 }, ErrInvalidPageSize},
		{"zero page size", func(c *Config) { c.Pagination.UsersPageSize = 0 }, ErrInvalidPageSize},
		{"zero edit window", func(c *Config) { c.EditWindow = 0 }, ErrInvalidEditWindow},
		{"zero batch", func(c *Config) { c.Worker.BatchSize = 0 }, ErrInvalidWorker},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, ErrMissingDatabaseURL},
		{"public url", func(c *Config) { c.PublicURL = "https://agora.example" }, nil},
		{"public url without scheme", func(c *Config) { c.PublicURL = "agora.example" }, ErrInvalidPublicURL},
		{"public url with bad scheme", func(c *Config) { c.PublicURL = "ftp://agora.example" }, ErrInvalidPublicURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.JWTSecret = "x"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
