package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for STORE_BACKEND.
const (
	BackendWorkbook = "workbook"
	BackendSheets   = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Sheets    SheetsConfig
	SMTP      SMTPConfig
	Holidays  HolidaysConfig
	Auth      AuthConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// StoreConfig selects the tabular backend holding the sales records.
type StoreConfig struct {
	Backend      string
	WorkbookPath string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	SheetName       string
}

// SMTPConfig holds the outbound mail account. An empty Host disables notifications.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	To       []string
}

// Enabled reports whether outbound mail is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// HolidaysConfig points at the holiday calendar API.
type HolidaysConfig struct {
	URL string
}

// User is a login allowed to use the application.
type User struct {
	ID       string
	Username string
	Password string
}

// AuthConfig holds the session signing key and the configured users.
type AuthConfig struct {
	SecretKey  string
	SessionTTL time.Duration
	Users      []User
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	Timezone        string
	ReminderEnabled bool
	ReminderCron    string
}

// Location resolves the configured timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// MongoDBConfig holds settings for the optional archive. An empty URI disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
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

	smtpPort, err := getenvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	sessionTTL, err := getenvDuration("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}

	users, err := loadUsers()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Backend:      strings.ToLower(getenvWithDefault("STORE_BACKEND", BackendWorkbook)),
			WorkbookPath: getenvWithDefault("WORKBOOK_PATH", "sales.xlsx"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			SheetName:       getenvWithDefault("GOOGLE_SHEET_NAME", "Sales"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_SERVER"),
			Port:     smtpPort,
			Username: os.Getenv("OUTLOOK_EMAIL"),
			Password: os.Getenv("OUTLOOK_PASSWORD"),
			To:       splitList(os.Getenv("MAIL_TO")),
		},
		Holidays: HolidaysConfig{
			URL: os.Getenv("HOLIDAYS_API_URL"),
		},
		Auth: AuthConfig{
			SecretKey:  os.Getenv("SECRET_KEY"),
			SessionTTL: sessionTTL,
			Users:      users,
		},
		Reporting: ReportingConfig{
			Timezone:        getenvWithDefault("TIMEZONE", "Asia/Tokyo"),
			ReminderEnabled: getenvBool("REMINDER_ENABLED"),
			ReminderCron:    getenvWithDefault("REMINDER_CRON", "0 10 * * 1-5"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "salesbook"),
		},
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

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Backend {
	case BackendWorkbook:
		if c.Store.WorkbookPath == "" {
			return errors.New("WORKBOOK_PATH must be provided")
		}
	case BackendSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
		if c.Sheets.SheetName == "" {
			return errors.New("GOOGLE_SHEET_NAME must not be empty")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}

	if c.SMTP.Enabled() {
		if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
			return fmt.Errorf("SMTP_PORT %d out of range", c.SMTP.Port)
		}
		if c.SMTP.Username == "" {
			return errors.New("OUTLOOK_EMAIL must be provided when SMTP_SERVER is set")
		}
		if len(c.SMTP.To) == 0 {
			return errors.New("MAIL_TO must be provided when SMTP_SERVER is set")
		}
	}

	if c.Auth.SecretKey == "" {
		return errors.New("SECRET_KEY must be provided")
	}

	if c.Auth.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.Reporting.ReminderEnabled && c.Reporting.ReminderCron == "" {
		return errors.New("REMINDER_CRON must be provided when REMINDER_ENABLED is set")
	}

	return nil
}

// loadUsers reads USER_COUNT and the USERNAME{i}/PASSWORD{i} pairs. Pairs with a
// missing half are skipped.
func loadUsers() ([]User, error) {
	count, err := getenvInt("USER_COUNT", 0)
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, count)
	for i := 1; i <= count; i++ {
		username := os.Getenv(fmt.Sprintf("USERNAME%d", i))
		password := os.Getenv(fmt.Sprintf("PASSWORD%d", i))
		if username == "" || password == "" {
			continue
		}
		users = append(users, User{ID: strconv.Itoa(i), Username: username, Password: password})
	}

	return users, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
