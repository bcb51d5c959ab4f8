package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

const (
	ProviderLemonSqueezy = "lemonsqueezy"
	ProviderGumroad      = "gumroad"

	DefaultPermission = "pull"
	DefaultPort       = 8787
)

// ErrMissingConfig is returned by accessors when a required value is unset.
var ErrMissingConfig = errors.New("missing_config")

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Port        int

	GitHub    GitHubConfig
	Providers ProvidersConfig
	AdminKey  string

	Log  LogConfig
	Otel OtelConfig
}

type GitHubConfig struct {
	Token      string
	Owner      string
	Repo       string
	Permission string
	APIURL     string
	Timeout    time.Duration
}

type ProvidersConfig struct {
	LemonSigningSecret string
	GumroadToken       string
}

type LogConfig struct {
	Level  string
	Format string
}

type OtelConfig struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// Target is the repository whose collaborator list is managed.
type Target struct {
	Owner      string
	Repo       string
	Permission string
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load reads configuration from the environment, an optional .env file and an
// optional gatekeeper.yml. Required values are checked on use, not here.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("gatekeeper")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/gatekeeper")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("app_service", "gatekeeper")
	v.SetDefault("app_version", "0.1.0")
	v.SetDefault("environment", "development")
	v.SetDefault("port", DefaultPort)
	v.SetDefault("github_permission", DefaultPermission)
	v.SetDefault("github_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "localhost:4317")
	v.SetDefault("otel_exporter_otlp_protocol", "grpc")
	v.SetDefault("otel_sampling_ratio", 0.1)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	permission := strings.TrimSpace(v.GetString("github_permission"))
	if permission == "" {
		permission = DefaultPermission
	}

	cfg := Config{
		AppName:     strings.TrimSpace(v.GetString("app_service")),
		AppVersion:  strings.TrimSpace(v.GetString("app_version")),
		Environment: strings.TrimSpace(v.GetString("environment")),
		Port:        v.GetInt("port"),
		GitHub: GitHubConfig{
			Token:      strings.TrimSpace(v.GetString("github_token")),
			Owner:      strings.TrimSpace(v.GetString("github_owner")),
			Repo:       strings.TrimSpace(v.GetString("github_repo")),
			Permission: permission,
			APIURL:     strings.TrimSpace(v.GetString("github_api_url")),
			Timeout:    v.GetDuration("github_timeout"),
		},
		Providers: ProvidersConfig{
			LemonSigningSecret: v.GetString("lemon_signing_secret"),
			GumroadToken:       v.GetString("gumroad_webhook_token"),
		},
		AdminKey: strings.TrimSpace(v.GetString("admin_key")),
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		},
		Otel: OtelConfig{
			Enabled:          v.GetBool("otel_enabled"),
			ExporterEndpoint: strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint")),
			ExporterProtocol: strings.ToLower(strings.TrimSpace(v.GetString("otel_exporter_otlp_protocol"))),
			SamplingRatio:    v.GetFloat64("otel_sampling_ratio"),
		},
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	if cfg.GitHub.Timeout <= 0 {
		cfg.GitHub.Timeout = 10 * time.Second
	}

	return cfg, nil
}

// Target returns the managed repository, or ErrMissingConfig naming the first unset variable.
func (c Config) Target() (Target, error) {
	switch {
	case c.GitHub.Token == "":
		return Target{}, missing("GITHUB_TOKEN")
	case c.GitHub.Owner == "":
		return Target{}, missing("GITHUB_OWNER")
	case c.GitHub.Repo == "":
		return Target{}, missing("GITHUB_REPO")
	}
	return Target{
		Owner:      c.GitHub.Owner,
		Repo:       c.GitHub.Repo,
		Permission: c.GitHub.Permission,
	}, nil
}

// ProviderSecret returns the shared secret used to authenticate a provider's deliveries.
func (c Config) ProviderSecret(provider string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderLemonSqueezy:
		if c.Providers.LemonSigningSecret == "" {
			return "", missing("LEMON_SIGNING_SECRET")
		}
		return c.Providers.LemonSigningSecret, nil
	case ProviderGumroad:
		if c.Providers.GumroadToken == "" {
			return "", missing("GUMROAD_WEBHOOK_TOKEN")
		}
		return c.Providers.GumroadToken, nil
	default:
		return "", fmt.Errorf("%w: no secret for provider %q", ErrMissingConfig, provider)
	}
}

// RequireAdminKey returns the admin shared secret.
func (c Config) RequireAdminKey() (string, error) {
	if c.AdminKey == "" {
		return "", missing("ADMIN_KEY")
	}
	return c.AdminKey, nil
}

// MissingKeys lists required variables that are unset, for a startup warning.
func (c Config) MissingKeys() []string {
	var out []string
	for key, value := range map[string]string{
		"GITHUB_TOKEN":          c.GitHub.Token,
		"GITHUB_OWNER":          c.GitHub.Owner,
		"GITHUB_REPO":           c.GitHub.Repo,
		"LEMON_SIGNING_SECRET":  c.Providers.LemonSigningSecret,
		"GUMROAD_WEBHOOK_TOKEN": c.Providers.GumroadToken,
		"ADMIN_KEY":             c.AdminKey,
	} {
		if value == "" {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func missing(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingConfig, name)
}
