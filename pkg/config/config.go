package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Frontend FrontendConfig
	Cookies  CookieConfig
	Redis    RedisConfig
	Cache    CacheConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	err = multierr.Append(err, validateURL(EnvBackendURL, c.Backend.BaseURL))
	err = multierr.Append(err, validateURL(EnvFrontendURL, c.Frontend.UpstreamURL))
	if c.Backend.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvBackendTimeout))
	}
	if c.Cache.TTL < 0 {
		err = multierr.Append(err, fmt.Errorf("%s must not be negative", EnvCacheTTL))
	}
	if c.App.IsProd() && !c.Cookies.Secure {
		err = multierr.Append(err, fmt.Errorf("%s must stay enabled in %s", EnvCookieSecure, AppEnvProd))
	}
	if c.Cache.Enabled() && !c.Redis.Configured() {
		err = multierr.Append(err, fmt.Errorf("%s requires %s or %s", EnvCacheTTL, EnvRedisURL, EnvRedisAddr))
	}
	return err
}

func validateURL(name, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New(name + " must be an absolute url")
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"SERVICEHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"SERVICEHUB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SERVICEHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SERVICEHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the REST API that owns identity and provider profiles.
type BackendConfig struct {
	BaseURL string        `envconfig:"SERVICEHUB_BACKEND_URL" required:"true"`
	Timeout time.Duration `envconfig:"SERVICEHUB_BACKEND_TIMEOUT" default:"5s"`
}

type FrontendConfig struct {
	UpstreamURL    string   `envconfig:"SERVICEHUB_FRONTEND_URL" required:"true"`
	AllowedOrigins []string `envconfig:"SERVICEHUB_CORS_ORIGINS"`
}

type CookieConfig struct {
	AccessToken  string `envconfig:"SERVICEHUB_COOKIE_ACCESS_TOKEN" default:"accessToken"`
	RefreshToken string `envconfig:"SERVICEHUB_COOKIE_REFRESH_TOKEN" default:"refreshToken"`
	Secure       bool   `envconfig:"SERVICEHUB_COOKIE_SECURE" default:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SERVICEHUB_REDIS_URL"`
	Address      string        `envconfig:"SERVICEHUB_REDIS_ADDR"`
	Password     string        `envconfig:"SERVICEHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"SERVICEHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SERVICEHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SERVICEHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SERVICEHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SERVICEHUB_REDIS_READ_TIMEOUT" default:"2s"`
	WriteTimeout time.Duration `envconfig:"SERVICEHUB_REDIS_WRITE_TIMEOUT" default:"2s"`
}

// Configured reports whether any redis endpoint was supplied.
func (r RedisConfig) Configured() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// CacheConfig bounds how long identity and onboarding lookups may be reused.
// A zero TTL disables caching and every request re-resolves upstream.
type CacheConfig struct {
	TTL time.Duration `envconfig:"SERVICEHUB_CACHE_TTL" default:"0s"`
}

func (c CacheConfig) Enabled() bool {
	return c.TTL > 0
}
