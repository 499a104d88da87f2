package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort          = 8080
	DefaultThreshold         = 70
	DefaultAlertLimit        = 2
	DefaultBroadcastInterval = 5 * time.Second
	DefaultSQLitePath        = "stresswatch.db"
	DefaultMySQLPort         = 3306
)

// Config is the top-level configuration for both agent and server.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Scoring  ScoringConfig  `yaml:"scoring"`
	Database DatabaseConfig `yaml:"database"`
	Agent    AgentConfig    `yaml:"agent"`
	Server   ServerConfig   `yaml:"server"`
}

// ScoringConfig holds the classification policy.
type ScoringConfig struct {
	// HighStressThreshold is the score at or above which an observation is
	// classified (and stored) as high stress. Default: 70.
	HighStressThreshold int `yaml:"high_stress_threshold"`
}

// DatabaseConfig selects and configures the relational backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "mysql".
	Driver string `yaml:"driver"`

	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

// SQLiteConfig holds SQLite settings.
type SQLiteConfig struct {
	// Path is the database file path. ":memory:" is accepted for tests.
	Path string `yaml:"path"`
}

// MySQLConfig holds MySQL settings. The password is never stored in the file;
// PasswordEnv names the environment variable that holds it.
type MySQLConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`
	Database    string `yaml:"database"`
}

// Password returns the MySQL password resolved from the environment.
func (m MySQLConfig) Password() string {
	if m.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(m.PasswordEnv)
}

// DSN builds the MySQL connection string.
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		m.Username, m.Password(), m.Host, m.Port, m.Database)
}

// AgentConfig holds ingestion-agent settings.
type AgentConfig struct {
	// CSVPath is the default file ingested when the -file flag is absent.
	CSVPath string `yaml:"csv_path"`

	// WatchDir, when set and the agent runs with -watch, is a drop directory:
	// every CSV file created in it is ingested as it appears.
	WatchDir string `yaml:"watch_dir"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API and WebSocket hub listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures how the server authenticates incoming HTTP clients.
	Auth AuthConfig `yaml:"auth"`

	// Alerts holds retrieval defaults, rule definitions and webhook targets.
	Alerts AlertsConfig `yaml:"alerts"`

	// BroadcastInterval controls how often the WebSocket hub pushes the
	// latest alerts to connected clients. Default: 5s.
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// AuthConfig controls client authentication on the server side.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected
	// API key. Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header name to read the key from.
	// Defaults to "x-api-key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// AlertsConfig holds alert retrieval defaults, notification rules and
// webhook delivery targets.
type AlertsConfig struct {
	// DefaultLimit is the number of records returned when a retrieval request
	// omits the limit. Default: 2.
	DefaultLimit int `yaml:"default_limit"`

	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based notification condition evaluated
// against each newly stored high-stress record.
type AlertRule struct {
	// Name is the human-readable rule identifier, used as the cooldown key
	// together with the record's location.
	Name string `yaml:"name"`

	// Condition is a simple expression: "score > 90", "noise_level_db > 85",
	// "sleep_hours < 4", "location_id == 104".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration per rule and location.
	// Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Scoring: ScoringConfig{
			HighStressThreshold: DefaultThreshold,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: DefaultSQLitePath},
			MySQL:  MySQLConfig{Port: DefaultMySQLPort},
		},
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Alerts: AlertsConfig{
				DefaultLimit: DefaultAlertLimit,
			},
			BroadcastInterval: DefaultBroadcastInterval,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Scoring.HighStressThreshold <= 0 || cfg.Scoring.HighStressThreshold > 100 {
		return fmt.Errorf("scoring.high_stress_threshold %d is out of range [1, 100]",
			cfg.Scoring.HighStressThreshold)
	}
	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path must not be empty")
		}
	case "mysql":
		if cfg.Database.MySQL.Host == "" || cfg.Database.MySQL.Database == "" {
			return fmt.Errorf("database.mysql requires host and database")
		}
	default:
		return fmt.Errorf("database.driver %q unknown: want sqlite|mysql", cfg.Database.Driver)
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Alerts.DefaultLimit <= 0 {
		return fmt.Errorf("server.alerts.default_limit must be positive")
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	for _, r := range cfg.Server.Alerts.Rules {
		if r.Name == "" || r.Condition == "" {
			return fmt.Errorf("alert rules require name and condition")
		}
	}
	return nil
}
