// Package config manages runtime configuration.
//
// Values are layered the same way on every start:
//   - built-in defaults (DefaultConfig),
//   - an optional YAML file named by GEARGUARDIAN_CONFIG_FILE,
//   - environment variables prefixed with GEARGUARDIAN_ (a `.env` file is
//     loaded into the process environment first when present).
//
// The result is unmarshalled into Config and validated so the process fails
// fast on missing or malformed settings.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process environment, if present.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is stripped from every environment variable before mapping.
	EnvPrefix = "GEARGUARDIAN_"

	// ConfigFileEnvVar names the optional YAML config file.
	ConfigFileEnvVar = "GEARGUARDIAN_CONFIG_FILE"

	// ServiceName tags logs, traces and APM data.
	ServiceName = "gearguardian"
)

// sliceKeys are koanf paths whose env values are comma-separated lists.
var sliceKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected after unmarshalling.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	Jobs          JobsConfig           `koanf:"jobs" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`
	// RateLimit is the sustained number of requests per second allowed per client IP.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details. Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores the access token signing settings.
type AuthConfig struct {
	SecretKey      string        `koanf:"secret_key" validate:"required,min=16"`
	Issuer         string        `koanf:"issuer" validate:"required"`
	AccessTokenTTL time.Duration `koanf:"access_token_ttl" validate:"required"`
}

// IntegrationConfig holds credentials and endpoints for third-party services.
type IntegrationConfig struct {
	ResendAPIKey  string              `koanf:"resend_api_key"`
	EmailFrom     string              `koanf:"email_from" validate:"required"`
	Strava        StravaConfig        `koanf:"strava" validate:"required"`
	GarminConnect GarminConnectConfig `koanf:"garminconnect" validate:"required"`
}

// StravaConfig configures the Strava OAuth application and API client.
type StravaConfig struct {
	ClientID     string  `koanf:"client_id"`
	ClientSecret string  `koanf:"client_secret"`
	RedirectURL  string  `koanf:"redirect_url"`
	BaseURL      string  `koanf:"base_url" validate:"required,url"`
	AuthURL      string  `koanf:"auth_url" validate:"required,url"`
	TokenURL     string  `koanf:"token_url" validate:"required,url"`
	RateLimit    float64 `koanf:"rate_limit" validate:"gt=0"`
	// RefreshWindow refreshes tokens that expire within this duration.
	RefreshWindow time.Duration `koanf:"refresh_window" validate:"required"`
}

// GarminConnectConfig configures the Garmin Connect API client.
type GarminConnectConfig struct {
	BaseURL   string  `koanf:"base_url" validate:"required,url"`
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`
}

// JobsConfig controls the background worker and the periodic scheduler.
type JobsConfig struct {
	Concurrency              int           `koanf:"concurrency" validate:"required,min=1"`
	SchedulerEnabled         bool          `koanf:"scheduler_enabled"`
	RemoveExpiredTokensEvery time.Duration `koanf:"remove_expired_tokens_every" validate:"required"`
	RefreshStravaTokensEvery time.Duration `koanf:"refresh_strava_tokens_every" validate:"required"`
	StravaActivitiesEvery    time.Duration `koanf:"strava_activities_every" validate:"required"`
	GarminActivitiesEvery    time.Duration `koanf:"garmin_activities_every" validate:"required"`
	GarminHealthEvery        time.Duration `koanf:"garmin_health_every" validate:"required"`
	// Lookback is how far back each periodic activity pull reaches.
	Lookback time.Duration `koanf:"lookback" validate:"required"`
}

// DefaultConfig returns the baseline configuration. Anything secret is left
// empty so validation forces it to come from the environment or a file.
func DefaultConfig() Config {
	return Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"http://localhost:5173"},
			RateLimit:          20,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "gearguardian",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 300,
		},
		Redis: RedisConfig{Address: "localhost:6379"},
		Auth: AuthConfig{
			Issuer:         ServiceName,
			AccessTokenTTL: 15 * time.Minute,
		},
		Integration: IntegrationConfig{
			EmailFrom: "GearGuardian <onboarding@resend.dev>",
			Strava: StravaConfig{
				BaseURL:       "https://www.strava.com/api/v3",
				AuthURL:       "https://www.strava.com/oauth/authorize",
				TokenURL:      "https://www.strava.com/oauth/token",
				RateLimit:     1,
				RefreshWindow: time.Hour,
			},
			GarminConnect: GarminConnectConfig{
				BaseURL:   "https://connectapi.garmin.com",
				RateLimit: 1,
			},
		},
		Jobs: JobsConfig{
			Concurrency:              5,
			SchedulerEnabled:         true,
			RemoveExpiredTokensEvery: 5 * time.Minute,
			RefreshStravaTokensEvery: 30 * time.Minute,
			StravaActivitiesEvery:    time.Hour,
			GarminActivitiesEvery:    time.Hour,
			GarminHealthEvery:        time.Hour,
			Lookback:                 24 * time.Hour,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads, validates and completes the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path := os.Getenv(ConfigFileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// GEARGUARDIAN_DATABASE__HOST -> database.host
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}

	// Service identity always follows the primary config.
	cfg.Observability.ServiceName = ServiceName
	cfg.Observability.Environment = cfg.Primary.Env

	if err := cfg.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return cfg, nil
}

// envKeyValue maps an environment variable onto a koanf path and value.
// A double underscore separates nesting levels.
func envKeyValue(key, value string) (string, interface{}) {
	path := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	path = strings.ReplaceAll(path, "__", ".")

	if path == strings.ToLower(strings.TrimPrefix(ConfigFileEnvVar, EnvPrefix)) {
		return "", nil
	}

	if sliceKeys[path] {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return path, out
	}

	return path, value
}

// DSN builds the postgres URL for the configured database. The password is
// URL-escaped so special characters cannot break the URL structure.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}
