package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the scraper.
type Config struct {
	LoginURL  string `mapstructure:"LOGIN_URL"`
	TargetURL string `mapstructure:"TARGET_URL"`
	Username  string `mapstructure:"LOGIN_USERNAME"`
	Password  string `mapstructure:"LOGIN_PASSWORD"`

	SupabaseURL        string `mapstructure:"SUPABASE_URL"`
	SupabaseServiceKey string `mapstructure:"SUPABASE_SERVICE_KEY"`
	PostgresURL        string `mapstructure:"POSTGRES_URL"`
	TableName          string `mapstructure:"TABLE_NAME"`

	StartPage int `mapstructure:"START_PAGE"`
	EndPage   int `mapstructure:"END_PAGE"` // 0 means unbounded traversal

	MaxRetries        int  `mapstructure:"MAX_RETRIES"`
	NavRetries        int  `mapstructure:"NAV_RETRIES"`
	DownloadTimeoutMS int  `mapstructure:"DOWNLOAD_TIMEOUT"`
	PageDelayMS       int  `mapstructure:"PAGE_DELAY"`
	BatchSize         int  `mapstructure:"BATCH_SIZE"`
	Headless          bool `mapstructure:"HEADLESS"`
	MaxContentChars   int  `mapstructure:"MAX_CONTENT_CHARS"`

	TOTPEndpoint string `mapstructure:"TOTP_ENDPOINT"`

	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	DedupTTLDays int    `mapstructure:"DEDUP_TTL_DAYS"`

	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from a .env file or environment variables and
// validates it before anything touches the network.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables.
	_ = viper.ReadInConfig()

	// Required keys default to empty so viper knows about them; Validate
	// rejects the empties.
	viper.SetDefault("LOGIN_URL", "")
	viper.SetDefault("TARGET_URL", "")
	viper.SetDefault("LOGIN_USERNAME", "")
	viper.SetDefault("LOGIN_PASSWORD", "")
	viper.SetDefault("SUPABASE_URL", "")
	viper.SetDefault("SUPABASE_SERVICE_KEY", "")
	viper.SetDefault("POSTGRES_URL", "")
	viper.SetDefault("TABLE_NAME", "judgments")
	viper.SetDefault("START_PAGE", 1)
	viper.SetDefault("END_PAGE", 0)
	viper.SetDefault("MAX_RETRIES", 5)
	viper.SetDefault("NAV_RETRIES", 3)
	viper.SetDefault("DOWNLOAD_TIMEOUT", 60000) // ms
	viper.SetDefault("PAGE_DELAY", 20000)       // ms
	viper.SetDefault("BATCH_SIZE", 10)
	viper.SetDefault("HEADLESS", true)
	viper.SetDefault("MAX_CONTENT_CHARS", 0)
	viper.SetDefault("TOTP_ENDPOINT", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("DEDUP_TTL_DAYS", 30)
	viper.SetDefault("SERVER_PORT", "")
	viper.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on missing required settings.
func (c *Config) Validate() error {
	var missing []string
	if c.LoginURL == "" {
		missing = append(missing, "LOGIN_URL")
	}
	if c.TargetURL == "" {
		missing = append(missing, "TARGET_URL")
	}
	if c.Username == "" {
		missing = append(missing, "LOGIN_USERNAME")
	}
	if c.Password == "" {
		missing = append(missing, "LOGIN_PASSWORD")
	}
	if c.PostgresURL == "" && (c.SupabaseURL == "" || c.SupabaseServiceKey == "") {
		missing = append(missing, "SUPABASE_URL+SUPABASE_SERVICE_KEY or POSTGRES_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
