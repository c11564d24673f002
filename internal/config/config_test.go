package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("LOGIN_URL", "https://court.example.org/login")
	t.Setenv("TARGET_URL", "https://court.example.org/judgments")
	t.Setenv("LOGIN_USERNAME", "clerk")
	t.Setenv("LOGIN_PASSWORD", "secret")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "judgments", cfg.TableName)
	require.Equal(t, 1, cfg.StartPage)
	require.Equal(t, 0, cfg.EndPage)
	require.Equal(t, 5, cfg.MaxRetries)
	require.Equal(t, 3, cfg.NavRetries)
	require.Equal(t, 60000, cfg.DownloadTimeoutMS)
	require.Equal(t, 20000, cfg.PageDelayMS)
	require.Equal(t, 10, cfg.BatchSize)
	require.True(t, cfg.Headless)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.TOTPEndpoint)
	require.Empty(t, cfg.RedisAddr)
	require.Empty(t, cfg.ServerPort)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("START_PAGE", "3")
	t.Setenv("END_PAGE", "7")
	t.Setenv("BATCH_SIZE", "4")
	t.Setenv("HEADLESS", "false")
	t.Setenv("TOTP_ENDPOINT", "https://codes.example.org/latest")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 3, cfg.StartPage)
	require.Equal(t, 7, cfg.EndPage)
	require.Equal(t, 4, cfg.BatchSize)
	require.False(t, cfg.Headless)
	require.Equal(t, "https://codes.example.org/latest", cfg.TOTPEndpoint)
}

func TestLoadMissingCredentials(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("LOGIN_URL", "https://court.example.org/login")
	t.Setenv("TARGET_URL", "https://court.example.org/judgments")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "LOGIN_USERNAME")
	require.Contains(t, err.Error(), "LOGIN_PASSWORD")
}

func TestValidateRequiresASink(t *testing.T) {
	cfg := &Config{
		LoginURL:  "https://court.example.org/login",
		TargetURL: "https://court.example.org/judgments",
		Username:  "clerk",
		Password:  "secret",
	}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SUPABASE_URL+SUPABASE_SERVICE_KEY or POSTGRES_URL")

	cfg.PostgresURL = "postgres://localhost/judgments"
	require.NoError(t, cfg.Validate())
}
