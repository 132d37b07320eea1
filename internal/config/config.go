package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config location.
const ConfigPath = "config.yaml"

// Store backends.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	StoreBackend    string `yaml:"storeBackend"`
	SpreadsheetID   string `yaml:"spreadsheetID"`
	CredentialsFile string `yaml:"credentialsFile"`
	LedgerSheet     string `yaml:"ledgerSheet"`
	MembersSheet    string `yaml:"membersSheet"`
	DatabaseURL     string `yaml:"databaseURL"`

	RedisAddr                  string   `yaml:"redisAddr"`
	RedisPassword              string   `yaml:"redisPassword"`
	RegisterRateLimitPerMinute int      `yaml:"registerRateLimitPerMinute"`
	LookupRateLimitPerMinute   int      `yaml:"lookupRateLimitPerMinute"`
	TrustedProxies             []string `yaml:"trustedProxies"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("BARTER_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("BARTER_STORE_BACKEND"); v != "" {
		cfg.StoreBackend = v
	}
	if v := os.Getenv("BARTER_SPREADSHEET_ID"); v != "" {
		cfg.SpreadsheetID = v
	}
	if v := os.Getenv("BARTER_CREDENTIALS_FILE"); v != "" {
		cfg.CredentialsFile = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("BARTER_REGISTER_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RegisterRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("BARTER_LOOKUP_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LookupRateLimitPerMinute = n
		}
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	switch strings.TrimSpace(cfg.StoreBackend) {
	case BackendSheets:
		if cfg.SpreadsheetID == "" {
			return errors.New("config: spreadsheetID is required for the sheets backend")
		}
		if cfg.CredentialsFile == "" {
			return errors.New("config: credentialsFile is required for the sheets backend")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("config: databaseURL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: storeBackend must be %q or %q", BackendSheets, BackendPostgres)
	}
	if cfg.RegisterRateLimitPerMinute < 0 || cfg.LookupRateLimitPerMinute < 0 {
		return errors.New("config: rate limits must not be negative")
	}
	if (cfg.RegisterRateLimitPerMinute > 0 || cfg.LookupRateLimitPerMinute > 0) && strings.TrimSpace(cfg.RedisAddr) == "" {
		return errors.New("config: redisAddr is required when rate limits are enabled")
	}
	return nil
}
