package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	LLM       LLMConfig
	Mail      MailConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Host string `env:"APP_HOST" envDefault:":8080"`
	Env  string `env:"APP_ENV" envDefault:"production"`
	// TrustedProxies lists the proxy IPs or CIDRs whose forwarding headers
	// are believed. Empty means the peer address is always the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// DatabaseConfig points at the postgres instance and its migrations.
type DatabaseConfig struct {
	URL           string `env:"DATABASE_URL"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// AuthConfig contains token signing settings and the optional first account.
type AuthConfig struct {
	JWTSecret         string        `env:"JWT_SECRET"`
	TokenTTL          time.Duration `env:"JWT_TTL" envDefault:"120h"`
	BootstrapEmail    string        `env:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapPassword string        `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// LLMConfig holds settings for the chat completion provider.
type LLMConfig struct {
	APIKey    string        `env:"LLM_API_KEY"`
	BaseURL   string        `env:"LLM_BASE_URL" envDefault:"https://api.anthropic.com"`
	Model     string        `env:"LLM_MODEL" envDefault:"claude-3-haiku-20240307"`
	MaxTokens int           `env:"LLM_MAX_TOKENS" envDefault:"1024"`
	Timeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
}

// MailConfig contains SMTP credentials used for maintenance notifications.
type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM"`
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsJSON string `env:"GOOGLE_SHEETS_CREDENTIALS_JSON"`
	CredentialsPath string `env:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	SpreadsheetID   string `env:"GOOGLE_SHEETS_SPREADSHEET_ID"`
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string `env:"STOCK_REPORT_CRON" envDefault:"0 7 * * *"`
	SheetRange   string `env:"STOCK_REPORT_RANGE" envDefault:"Stock!A:F"`
}

// Enabled reports whether the LLM client can be built.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// Enabled reports whether an SMTP server is configured.
func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Enabled reports whether the spreadsheet export has what it needs.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != "" && (c.CredentialsJSON != "" || c.CredentialsPath != "")
}

// IsDevelopment is true when APP_ENV is "development".
func (c ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
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
		// A missing .env is fine, system environment variables take over.
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

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

	switch {
	case c.Server.Host == "":
		return errors.New("APP_HOST must not be empty")
	case c.Database.URL == "":
		return errors.New("DATABASE_URL must be provided")
	case c.Auth.JWTSecret == "":
		return errors.New("JWT_SECRET must be provided")
	case c.Auth.TokenTTL <= 0:
		return errors.New("JWT_TTL must be positive")
	}

	if c.LLM.MaxTokens <= 0 {
		return errors.New("LLM_MAX_TOKENS must be positive")
	}

	if c.Mail.Host != "" && c.Mail.Port <= 0 {
		return errors.New("SMTP_PORT must be positive when SMTP_HOST is set")
	}

	if (c.Auth.BootstrapEmail == "") != (c.Auth.BootstrapPassword == "") {
		return errors.New("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}

	return nil
}
