// Package config loads the service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration. Sources, highest priority first:
//  1. an explicit path (the --config flag);
//  2. the path in CONFIG_PATH;
//  3. ./local.yaml;
//  4. environment variables only.
//
// Environment variables always override values read from a file.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	Diag     DiagConfig     `yaml:"diag"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	News     NewsConfig     `yaml:"news"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// Addr returns host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DiagConfig is the metrics/health listener. An empty Addr disables it.
type DiagConfig struct {
	Addr string `yaml:"addr" env:"DIAG_ADDR"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	Path   string `yaml:"path" env:"DB_PATH" env-default:"data/notes-news.db"`
	URL    string `yaml:"url" env:"DATABASE_URL"`
}

type AuthConfig struct {
	JWTSecret          string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	SessionTTL         time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"24h"`
	SecureCookie       bool          `yaml:"secure_cookie" env:"SECURE_COOKIE" env-default:"false"`
	BcryptCost         int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"12"`
	GitHubClientID     string        `yaml:"github_client_id" env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string        `yaml:"github_client_secret" env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string        `yaml:"github_callback_url" env:"GITHUB_CALLBACK_URL"`
	// LoginRate is attempts per second per client IP on login and signup POSTs.
	LoginRate  float64 `yaml:"login_rate" env:"LOGIN_RATE" env-default:"1"`
	LoginBurst int     `yaml:"login_burst" env:"LOGIN_BURST" env-default:"5"`
}

// GitHubEnabled reports whether GitHub login is configured.
func (a AuthConfig) GitHubEnabled() bool {
	return a.GitHubClientID != "" && a.GitHubClientSecret != ""
}

type NewsConfig struct {
	CountOnHomePage int `yaml:"count_on_home_page" env:"NEWS_COUNT_ON_HOME_PAGE" env-default:"10"`
}

// Load reads and validates the configuration. See Config for the priority.
func Load(path string) (*Config, error) {
	var cfg Config

	switch {
	case path != "":
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		if err := readFile(os.Getenv("CONFIG_PATH"), &cfg); err != nil {
			return nil, err
		}
	case fileExists("local.yaml"):
		if err := readFile("local.yaml", &cfg); err != nil {
			return nil, err
		}
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readFile reads p and then overlays the environment.
func readFile(p string, cfg *Config) error {
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("config file %q stat failed: %w", p, err)
	}
	if err := cleanenv.ReadConfig(p, cfg); err != nil {
		return fmt.Errorf("failed to read config %q: %w", p, err)
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("failed to overlay env: %w", err)
	}
	return nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func (c *Config) validate() error {
	var errs []error

	if c.HTTP.Port == "" {
		errs = append(errs, errors.New("http.port must not be empty"))
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 16 characters"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, errors.New("auth.bcrypt_cost must be between 4 and 31"))
	}
	if c.Auth.LoginRate <= 0 || c.Auth.LoginBurst <= 0 {
		errs = append(errs, errors.New("auth.login_rate and auth.login_burst must be positive"))
	}
	if (c.Auth.GitHubClientID == "") != (c.Auth.GitHubClientSecret == "") {
		errs = append(errs, errors.New("auth.github_client_id and auth.github_client_secret must be set together"))
	}
	if c.News.CountOnHomePage < 1 {
		errs = append(errs, errors.New("news.count_on_home_page must be at least 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
