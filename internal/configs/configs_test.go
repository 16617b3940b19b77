package configs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredS3Env(t *testing.T) {
	t.Helper()
	t.Setenv("S3_BUCKET_NAME", "quickchat-images")
	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_ACCESS_KEY_ID", "AKIATEST")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
}

func TestLoadConfig_DevelopmentDefaults(t *testing.T) {
	req := require.New(t)

	setRequiredS3Env(t)
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig()
	req.NoError(err)
	req.Equal("development", cfg.Environment)
	req.Equal(8080, cfg.Port)
	req.Empty(cfg.AllowedOrigins)
	req.NotEmpty(cfg.JWTSecret)
	req.Contains(cfg.DatabaseDSN, "quickchat")
}

func TestLoadConfig_ProductionRequiresSecrets(t *testing.T) {
	req := require.New(t)

	setRequiredS3Env(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	req.Error(err)
	req.Contains(err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("DATABASE_URL", "")

	_, err = LoadConfig()
	req.Error(err)
	req.Contains(err.Error(), "DATABASE_URL")
}

func TestLoadConfig_S3SettingsRequired(t *testing.T) {
	req := require.New(t)

	setRequiredS3Env(t)
	t.Setenv("S3_BUCKET_NAME", "")

	_, err := LoadConfig()
	req.Error(err)
	req.Contains(err.Error(), "S3_BUCKET_NAME")
}

func TestLoadConfig_PortValidation(t *testing.T) {
	setRequiredS3Env(t)

	cases := []struct {
		name string
		port string
	}{
		{"not a number", "not-a-port"},
		{"privileged", "80"},
		{"out of range", "70000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PORT", tc.port)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_AllowedOriginsAreTrimmed(t *testing.T) {
	req := require.New(t)

	setRequiredS3Env(t)
	t.Setenv("ALLOWED_ORIGINS", " https://app.example.com , https://staging.example.com ,")

	cfg, err := LoadConfig()
	req.NoError(err)
	req.Equal([]string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}
