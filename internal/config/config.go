package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Sources         []string       `yaml:"sources"`
	Email           EmailConfig    `yaml:"email"`
	Cache           CacheConfig    `yaml:"cache"`
	FreshnessWindow string         `yaml:"freshness_window"`
	Scoring         ScoringConfig  `yaml:"scoring"`
	Digest          DigestConfig   `yaml:"digest"`
	Schedule        ScheduleConfig `yaml:"schedule"`
	Server          ServerConfig   `yaml:"server"`
	Logging         LoggingConfig  `yaml:"logging"`
	Alerts          AlertsConfig   `yaml:"alerts"`
}

// ParseFreshnessWindow returns the maximum age of a new article.
func (c *Config) ParseFreshnessWindow() time.Duration {
	d, err := time.ParseDuration(c.FreshnessWindow)
	if err != nil || d <= 0 {
		return 48 * time.Hour
	}
	return d
}

// EmailConfig configures digest delivery over SMTP.
type EmailConfig struct {
	Sender      string `yaml:"sender"`
	Receiver    string `yaml:"receiver"`
	AppPassword string `yaml:"app_password"`
	SMTPHost    string `yaml:"smtp_host"`
	SMTPPort    int    `yaml:"smtp_port"`
	Security    string `yaml:"security"` // "tls", "starttls" or "none"
}

// CacheConfig configures the seen-link cache.
type CacheConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`
}

// ScoringConfig configures relevance scoring.
type ScoringConfig struct {
	ExtraKeywords []string `yaml:"extra_keywords"`
}

// DigestConfig configures digest rendering and sending.
type DigestConfig struct {
	Subject       string `yaml:"subject"`
	SummaryLength int    `yaml:"summary_length"`
	SendWhenEmpty bool   `yaml:"send_when_empty"`
}

// ScheduleConfig configures daemon mode.
type ScheduleConfig struct {
	Interval string `yaml:"interval"`
}

// ParseInterval returns the run interval as time.Duration.
func (s ScheduleConfig) ParseInterval() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// AlertsConfig configures extra digest destinations.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook delivery.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook delivery.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook delivery.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 465,
			Security: "tls",
		},
		Cache: CacheConfig{
			Backend: "file",
			Path:    "cache.json",
		},
		FreshnessWindow: "48h",
		Digest: DigestConfig{
			Subject:       "🤖 Dein täglicher AI Digest",
			SummaryLength: 200,
			SendWhenEmpty: true,
		},
		Schedule: ScheduleConfig{Interval: "24h"},
		Server:   ServerConfig{Port: 8080},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPaths are tried in order when no config path is given.
var DefaultPaths = []string{"config.yaml", "config.json"}

// UserConfigPath is the per-user config file under the XDG config home.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "aidigest", "config.yaml")
}

// Resolve returns path, or the first existing default path, or the user
// config file if it exists, or "".
func Resolve(path string) string {
	if path != "" {
		return path
	}
	for _, p := range append(DefaultPaths, UserConfigPath()) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads configuration from a YAML (or JSON) file and applies env var
// overrides. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EMAIL_USER"); v != "" {
		cfg.Email.Sender = v
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		cfg.Email.AppPassword = v
	}
	if v := os.Getenv("EMAIL_RECEIVER"); v != "" {
		cfg.Email.Receiver = v
	}
	if v := os.Getenv("AIDIGEST_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("AIDIGEST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}

// Validate checks the settings a delivering run cannot do without.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Sources) == 0 {
		errs = append(errs, errors.New("sources: at least one feed URL is required"))
	}
	if c.Email.Sender == "" {
		errs = append(errs, errors.New("email.sender is required (or EMAIL_USER)"))
	}
	if c.Email.Receiver == "" {
		errs = append(errs, errors.New("email.receiver is required (or EMAIL_RECEIVER)"))
	}
	if c.Email.AppPassword == "" {
		errs = append(errs, errors.New("email.app_password is required (or EMAIL_PASS)"))
	}
	switch c.Email.Security {
	case "tls", "starttls", "none":
	default:
		errs = append(errs, fmt.Errorf("email.security must be tls, starttls or none, got %q", c.Email.Security))
	}
	switch c.Cache.Backend {
	case "file", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be file or sqlite, got %q", c.Cache.Backend))
	}
	return errors.Join(errs...)
}
