package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Email     EmailConfig     `yaml:"email"`
	Push      PushConfig      `yaml:"push"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"             env:"HEALTH_PORT"             env-default:"8080"`
	BaseURL         string        `yaml:"base_url"         env:"HEALTH_BASE_URL"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HEALTH_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HEALTH_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"HEALTH_IDLE_TIMEOUT"     env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HEALTH_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"HEALTH_DB_PATH" env-default:"health.db"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"HEALTH_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"HEALTH_LOG_FORMAT" env-default:"text"`
}

// EmailConfig configures Postmark delivery. Empty token disables email.
type EmailConfig struct {
	PostmarkToken string `yaml:"postmark_token" env:"HEALTH_POSTMARK_TOKEN"`
	FromEmail     string `yaml:"from_email"     env:"HEALTH_FROM_EMAIL" env-default:"reminders@health.local"`
}

// PushConfig holds VAPID keys. Both must be set to enable web push.
type PushConfig struct {
	VAPIDPublicKey  string `yaml:"vapid_public_key"  env:"HEALTH_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `yaml:"vapid_private_key" env:"HEALTH_VAPID_PRIVATE_KEY"`
	Subscriber      string `yaml:"subscriber"        env:"HEALTH_VAPID_SUBSCRIBER" env-default:"mailto:reminders@health.local"`
}

// ReminderConfig controls the in-process daily trigger of the reminder scan.
type ReminderConfig struct {
	ScheduleEnabled bool   `yaml:"schedule_enabled" env:"HEALTH_REMINDER_SCHEDULE_ENABLED" env-default:"false"`
	RunAt           string `yaml:"run_at"           env:"HEALTH_REMINDER_RUN_AT"           env-default:"08:00"`
	Timezone        string `yaml:"timezone"         env:"HEALTH_TIMEZONE"                  env-default:"Local"`
}

type CalendarConfig struct {
	CacheTTL  time.Duration `yaml:"cache_ttl"  env:"HEALTH_CALENDAR_CACHE_TTL"  env-default:"30s"`
	CacheSize int           `yaml:"cache_size" env:"HEALTH_CALENDAR_CACHE_SIZE" env-default:"256"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"HEALTH_RATE_LIMIT_RPS"   env-default:"10"`
	Burst             int     `yaml:"burst"               env:"HEALTH_RATE_LIMIT_BURST" env-default:"20"`
}

// Load reads configuration from an optional .env file, an optional YAML file
// named by HEALTH_CONFIG_PATH, and the environment. Priority: ENV > YAML > defaults.
func Load() (*Config, error) {
	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("HEALTH_CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints cleanenv cannot express.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if _, _, err := c.Reminder.Clock(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Reminder.Location(); err != nil {
		errs = append(errs, err)
	}
	if (c.Push.VAPIDPublicKey == "") != (c.Push.VAPIDPrivateKey == "") {
		errs = append(errs, errors.New("push: both VAPID keys must be set together"))
	}
	if c.Calendar.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("calendar cache size must be positive, got %d", c.Calendar.CacheSize))
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate limit rps and burst must be positive"))
	}

	return errors.Join(errs...)
}

// URL returns the configured public URL, falling back to localhost.
func (c ServerConfig) URL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return "http://localhost:" + c.Port
}

// Clock parses RunAt as a 24-hour HH:MM wall-clock time.
func (c ReminderConfig) Clock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(c.RunAt))
	if err != nil {
		return 0, 0, fmt.Errorf("reminder run_at %q: want HH:MM", c.RunAt)
	}
	return t.Hour(), t.Minute(), nil
}

// Location resolves Timezone; "Local" and "" mean the host zone.
func (c ReminderConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Enabled reports whether web push delivery is configured.
func (c PushConfig) Enabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}
