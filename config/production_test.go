package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProductionConfig_Defaults(t *testing.T) {
	t.Setenv("EFINE_CONFIG", "")
	t.Setenv("JWT_SECRET_KEY", "unit-test-secret")
	t.Chdir(t.TempDir())

	cfg, err := LoadProductionConfig("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.Cache.DashboardTTL)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.False(t, cfg.PayHere.Configured())
}

func TestLoadProductionConfig_LegacyNames(t *testing.T) {
	t.Setenv("EFINE_CONFIG", "")
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("PORT", "8081")
	t.Setenv("EMAIL_USER", "mailer@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("PAYHERE_MERCHANT_ID", "M1")
	t.Setenv("PAYHERE_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/efine?sslmode=disable")
	t.Chdir(t.TempDir())

	cfg, err := LoadProductionConfig("")
	require.NoError(t, err)

	assert.Equal(t, "legacy-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "mailer@example.com", cfg.Email.Username)
	assert.Equal(t, "mailer@example.com", cfg.Email.FromEmail)
	assert.Equal(t, "app-password", cfg.Email.Password)
	assert.True(t, cfg.PayHere.Configured())
	assert.Equal(t, "postgres://u:p@db:5432/efine?sslmode=disable", cfg.Database.DSN())
}

func TestLoadProductionConfig_CanonicalNameWins(t *testing.T) {
	t.Setenv("EFINE_CONFIG", "")
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("JWT_SECRET_KEY", "canonical-secret")
	t.Chdir(t.TempDir())

	cfg, err := LoadProductionConfig("")
	require.NoError(t, err)
	assert.Equal(t, "canonical-secret", cfg.JWT.SecretKey)
}

func TestLoadProductionConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "efine.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET_KEY=file-secret\nSERVER_PORT=9000\nCACHE_DASHBOARD_TTL=1m\n"), 0o600))
	t.Setenv("EFINE_CONFIG", "")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadProductionConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 9100, cfg.Server.Port, "environment overrides the file")
	assert.Equal(t, time.Minute, cfg.Cache.DashboardTTL)
}

func TestLoadProductionConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadProductionConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidateProductionConfig_CollectsAllProblems(t *testing.T) {
	cfg := &ProductionConfig{
		Server:   ServerConfig{Port: 0},
		Security: SecurityConfig{BcryptCost: 2},
		Email:    EmailConfig{Provider: "pigeon"},
		Logging:  LoggingConfig{Level: "loud", Output: "stdout"},
	}

	err := ValidateProductionConfig(cfg)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"DB_HOST is required",
		"JWT_SECRET_KEY is required",
		"JWT_ACCESS_TOKEN_TTL must be positive",
		"SERVER_PORT must be between 1 and 65535",
		"SECURITY_BCRYPT_COST must be between 4 and 14",
		"EMAIL_PROVIDER must be one of",
		"LOG_LEVEL must be one of",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateProductionConfig_ShortSecretInProduction(t *testing.T) {
	t.Setenv("EFINE_CONFIG", "")
	t.Setenv("JWT_SECRET_KEY", "short")
	t.Setenv("APP_ENV", "production")
	t.Chdir(t.TempDir())

	_, err := LoadProductionConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}
