package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends for the per-profile key-value store.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

const sessionKeyLength = 32

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Session    SessionConfig
	Storage    StorageConfig
	MongoDB    MongoDBConfig
	Thresholds ThresholdConfig
	Alerts     AlertConfig
	Sheets     SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// BackendConfig points at the remote inventory REST service.
type BackendConfig struct {
	BaseURL string
}

// SessionConfig holds cookie and CSRF secrets for browser profiles.
type SessionConfig struct {
	CookieName   string
	AuthKey      []byte
	CSRFKey      []byte
	CookieSecure bool
	MaxAgeDays   int
	// GeneratedKeys reports that at least one secret was generated at startup
	// because none was configured. Sessions will not survive a restart.
	GeneratedKeys bool
}

// StorageConfig selects where profile data (session, email log) lives.
type StorageConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// MongoDBConfig holds settings for the optional sent-email log collection.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// ThresholdConfig keeps the distinct stock thresholds used across pages.
type ThresholdConfig struct {
	// LowStock drives the admin alerting subset.
	LowStock int
	// Critical drives the dashboard count and the red badges.
	Critical int
	// Warning drives the amber badge on the inventory table.
	Warning int
}

// AlertConfig configures the scheduled low-stock email.
type AlertConfig struct {
	CronSchedule string
	Timezone     string
	Recipient    string
	Username     string
	Password     string
}

// SheetsConfig contains configuration required to append low-stock snapshots to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// Enabled reports whether the scheduled alert has been configured.
func (a AlertConfig) Enabled() bool {
	return a.CronSchedule != ""
}

// Enabled reports whether the Google Sheets sink has been configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" || s.SpreadsheetID != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "3000"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Backend: BackendConfig{
			BaseURL: getenvWithDefault("API_BASE_URL", "http://localhost:8080"),
		},
		Session: SessionConfig{
			CookieName:   getenvWithDefault("SESSION_COOKIE_NAME", "stockdesk-profile"),
			CookieSecure: getenvWithDefault("COOKIE_SECURE", "false") == "true",
		},
		Storage: StorageConfig{
			Backend:       strings.ToLower(getenvWithDefault("STORAGE_BACKEND", StorageMemory)),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockdesk"),
		},
		Alerts: AlertConfig{
			CronSchedule: os.Getenv("ALERT_CRON_SCHEDULE"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
			Recipient:    os.Getenv("ALERT_RECIPIENT"),
			Username:     os.Getenv("ALERT_USERNAME"),
			Password:     os.Getenv("ALERT_PASSWORD"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
			Range:           getenvWithDefault("GOOGLE_SHEET_RANGE", "LowStock!A:E"),
		},
	}

	var err error
	if cfg.Session.MaxAgeDays, err = getenvInt("SESSION_MAX_AGE_DAYS", 365); err != nil {
		return nil, err
	}
	if cfg.Storage.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Thresholds.LowStock, err = getenvInt("LOW_STOCK_THRESHOLD", 20); err != nil {
		return nil, err
	}
	if cfg.Thresholds.Critical, err = getenvInt("CRITICAL_STOCK_THRESHOLD", 10); err != nil {
		return nil, err
	}
	if cfg.Thresholds.Warning, err = getenvInt("WARNING_STOCK_THRESHOLD", 50); err != nil {
		return nil, err
	}

	var generated bool
	if cfg.Session.AuthKey, generated, err = secretFromEnv("SESSION_KEY"); err != nil {
		return nil, err
	}
	cfg.Session.GeneratedKeys = generated
	if cfg.Session.CSRFKey, generated, err = secretFromEnv("CSRF_KEY"); err != nil {
		return nil, err
	}
	cfg.Session.GeneratedKeys = cfg.Session.GeneratedKeys || generated

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("APP_PORT must be numeric, got %q", c.Server.Port)
	}

	if c.Backend.BaseURL == "" {
		return errors.New("API_BASE_URL must not be empty")
	}
	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.Backend.BaseURL)
	}

	if c.Session.CookieName == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	if len(c.Session.AuthKey) < sessionKeyLength || len(c.Session.CSRFKey) < sessionKeyLength {
		return fmt.Errorf("SESSION_KEY and CSRF_KEY must decode to at least %d bytes", sessionKeyLength)
	}
	if c.Session.MaxAgeDays <= 0 {
		return errors.New("SESSION_MAX_AGE_DAYS must be positive")
	}

	switch c.Storage.Backend {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("REDIS_ADDR must be provided when STORAGE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	switch {
	case c.Thresholds.Critical <= 0:
		return errors.New("CRITICAL_STOCK_THRESHOLD must be positive")
	case c.Thresholds.LowStock <= 0:
		return errors.New("LOW_STOCK_THRESHOLD must be positive")
	case c.Thresholds.Warning < c.Thresholds.Critical:
		return errors.New("WARNING_STOCK_THRESHOLD must not be below CRITICAL_STOCK_THRESHOLD")
	}

	if c.Alerts.Enabled() {
		switch {
		case c.Alerts.Recipient == "":
			return errors.New("ALERT_RECIPIENT must be provided when ALERT_CRON_SCHEDULE is set")
		case c.Alerts.Username == "" || c.Alerts.Password == "":
			return errors.New("ALERT_USERNAME and ALERT_PASSWORD must be provided when ALERT_CRON_SCHEDULE is set")
		case c.Alerts.Timezone == "":
			return errors.New("TIMEZONE must be provided")
		}
	}

	if c.Sheets.Enabled() {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_ID must be provided")
		}
		if c.Sheets.Range == "" {
			return errors.New("GOOGLE_SHEET_RANGE must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// secretFromEnv decodes a base64 secret, generating a random one when unset.
func secretFromEnv(key string) ([]byte, bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		b := make([]byte, sessionKeyLength)
		if _, err := rand.Read(b); err != nil {
			return nil, false, fmt.Errorf("generate %s: %w", key, err)
		}
		return b, true, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, false, fmt.Errorf("%s must be base64 encoded: %w", key, err)
	}
	return decoded, false, nil
}
