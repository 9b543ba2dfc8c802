package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string   `mapstructure:"PORT"`
	Env                string   `mapstructure:"ENV"`
	APIBaseURL         string   `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds  int      `mapstructure:"API_TIMEOUT_SECONDS"`
	SessionStoreDriver string   `mapstructure:"SESSION_STORE_DRIVER"`
	SessionStorePath   string   `mapstructure:"SESSION_STORE_PATH"`
	CookieName         string   `mapstructure:"COOKIE_NAME"`
	CORSOrigins        []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("API_TIMEOUT_SECONDS", 15)
	v.SetDefault("SESSION_STORE_DRIVER", "file")
	v.SetDefault("SESSION_STORE_PATH", "portal-session.json")
	v.SetDefault("COOKIE_NAME", "portal_session")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("API_BASE_URL")
	v.BindEnv("API_TIMEOUT_SECONDS")
	v.BindEnv("SESSION_STORE_DRIVER")
	v.BindEnv("SESSION_STORE_PATH")
	v.BindEnv("COOKIE_NAME")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// APITimeout returns the login request timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	if c.APITimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// Validate checks that the configuration is safe to run. The backend base URL
// must be an absolute http(s) URL and the session store driver must be one of
// the supported backends.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL scheme must be http or https, got %q", u.Scheme)
	}

	switch c.SessionStoreDriver {
	case "file", "sqlite":
	default:
		return fmt.Errorf("SESSION_STORE_DRIVER must be \"file\" or \"sqlite\", got %q", c.SessionStoreDriver)
	}
	if c.SessionStorePath == "" {
		return fmt.Errorf("SESSION_STORE_PATH is required")
	}

	return nil
}
