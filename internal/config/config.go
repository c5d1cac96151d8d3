package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration options for the study tracker
type Config struct {
	Database    DatabaseConfig
	Cache       CacheConfig
	Stats       StatsConfig
	Session     SessionConfig
	Validation  ValidationConfig
	Notify      NotifyConfig
	Application ApplicationConfig
}

// DatabaseConfig selects and tunes the persistence backend
type DatabaseConfig struct {
	Backend        string        `env:"STUDY_DB_BACKEND"`
	Dir            string        `env:"STUDY_DB_DIR"`
	Filename       string        `env:"STUDY_DB_FILENAME"`
	PostgresURL    string        `env:"STUDY_DB_POSTGRES_URL"`
	QueryTimeout   time.Duration `env:"STUDY_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"STUDY_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"STUDY_DB_DIR_PERMISSIONS"`
}

// CacheConfig configures where the last good report is kept
type CacheConfig struct {
	Backend       string        `env:"STUDY_CACHE_BACKEND"`
	RedisAddr     string        `env:"STUDY_CACHE_REDIS_ADDR"`
	RedisPassword string        `env:"STUDY_CACHE_REDIS_PASSWORD"`
	RedisDB       int           `env:"STUDY_CACHE_REDIS_DB"`
	KeyPrefix     string        `env:"STUDY_CACHE_KEY_PREFIX"`
	TTL           time.Duration `env:"STUDY_CACHE_TTL"`
}

// StatsConfig holds analytics defaults
type StatsConfig struct {
	DefaultWindow    string        `env:"STUDY_STATS_WINDOW"`
	DefaultGroup     string        `env:"STUDY_STATS_GROUP"`
	WeekStart        string        `env:"STUDY_STATS_WEEK_START"`
	Timezone         string        `env:"STUDY_STATS_TIMEZONE"`
	RefreshInterval  time.Duration `env:"STUDY_STATS_REFRESH_INTERVAL"`
	FetchConcurrency int           `env:"STUDY_STATS_FETCH_CONCURRENCY"`
}

// SessionConfig holds focus session defaults
type SessionConfig struct {
	DefaultSubject string `env:"STUDY_SESSION_DEFAULT_SUBJECT"`
	FocusMinutes   int    `env:"STUDY_SESSION_FOCUS_MINUTES"`
	MaxMinutes     int    `env:"STUDY_SESSION_MAX_MINUTES"`
}

// ValidationConfig holds input limits
type ValidationConfig struct {
	NameMaxLength        int `env:"STUDY_VALIDATION_NAME_MAX"`
	TitleMaxLength       int `env:"STUDY_VALIDATION_TITLE_MAX"`
	DescriptionMaxLength int `env:"STUDY_VALIDATION_DESCRIPTION_MAX"`
}

// NotifyConfig controls user notifications
type NotifyConfig struct {
	Desktop bool   `env:"STUDY_NOTIFY_DESKTOP"`
	AppName string `env:"STUDY_NOTIFY_APP_NAME"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	UserID   string        `env:"STUDY_USER"`
	Timeout  time.Duration `env:"STUDY_APP_TIMEOUT"`
	Verbose  bool          `env:"STUDY_APP_VERBOSE"`
	LogLevel string        `env:"STUDY_LOG_LEVEL"`
	LogFile  string        `env:"STUDY_LOG_FILE"`
}

// Backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// DefaultDir returns ~/.study, the home of the database and env file.
func DefaultDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".study")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	userID := "local"
	if u := os.Getenv("USER"); u != "" {
		userID = u
	}

	return &Config{
		Database: DatabaseConfig{
			Backend:        BackendSQLite,
			Dir:            DefaultDir(),
			Filename:       "study.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			RedisAddr: "localhost:6379",
			KeyPrefix: "study:report:",
			TTL:       24 * time.Hour,
		},
		Stats: StatsConfig{
			DefaultWindow:    "day",
			DefaultGroup:     "daily",
			WeekStart:        "sunday",
			Timezone:         "Local",
			RefreshInterval:  60 * time.Second,
			FetchConcurrency: 4,
		},
		Session: SessionConfig{
			DefaultSubject: "General",
			FocusMinutes:   25,
			MaxMinutes:     12 * 60,
		},
		Validation: ValidationConfig{
			NameMaxLength:        100,
			TitleMaxLength:       255,
			DescriptionMaxLength: 2000,
		},
		Notify: NotifyConfig{
			Desktop: true,
			AppName: "Study Tracker",
		},
		Application: ApplicationConfig{
			UserID:   userID,
			Timeout:  60 * time.Second,
			LogLevel: "info",
		},
	}
}

// GetDatabasePath returns the full path to the sqlite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// Location resolves the configured timezone used to decide calendar days.
func (c *Config) Location() (*time.Location, error) {
	switch c.Stats.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Stats.Timezone)
	}
}

// WeekStartDay returns the configured first day of a week bucket.
func (c *Config) WeekStartDay() time.Weekday {
	day, _ := parseWeekday(c.Stats.WeekStart)
	return day
}

func parseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) || strings.EqualFold(s, d.String()[:3]) {
			return d, true
		}
	}
	return time.Sunday, false
}

// LoadFromEnvironment loads configuration from STUDY_* environment variables
func (c *Config) LoadFromEnvironment() error {
	return c.apply(os.LookupEnv)
}

// LoadFromMap applies values from a parsed env file.
func (c *Config) LoadFromMap(values map[string]string) error {
	return c.apply(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})
}

// apply overrides fields for every key lookup reports as set and non-empty.
func (c *Config) apply(lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	var errs []string
	str := func(key string, dst *string) {
		if v := get(key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := get(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v := get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v := get(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = b
		}
	}

	// Database
	str("STUDY_DB_BACKEND", &c.Database.Backend)
	str("STUDY_DB_DIR", &c.Database.Dir)
	str("STUDY_DB_FILENAME", &c.Database.Filename)
	str("STUDY_DB_POSTGRES_URL", &c.Database.PostgresURL)
	dur("STUDY_DB_QUERY_TIMEOUT", &c.Database.QueryTimeout)
	dur("STUDY_DB_WRITE_TIMEOUT", &c.Database.WriteTimeout)
	if v := get("STUDY_DB_DIR_PERMISSIONS"); v != "" {
		p, err := strconv.ParseUint(v, 8, 32)
		if err != nil {
			errs = append(errs, fmt.Sprintf("STUDY_DB_DIR_PERMISSIONS: %v", err))
		} else {
			c.Database.DirPermissions = uint32(p)
		}
	}

	// Cache
	str("STUDY_CACHE_BACKEND", &c.Cache.Backend)
	str("STUDY_CACHE_REDIS_ADDR", &c.Cache.RedisAddr)
	str("STUDY_CACHE_REDIS_PASSWORD", &c.Cache.RedisPassword)
	num("STUDY_CACHE_REDIS_DB", &c.Cache.RedisDB)
	str("STUDY_CACHE_KEY_PREFIX", &c.Cache.KeyPrefix)
	dur("STUDY_CACHE_TTL", &c.Cache.TTL)

	// Stats
	str("STUDY_STATS_WINDOW", &c.Stats.DefaultWindow)
	str("STUDY_STATS_GROUP", &c.Stats.DefaultGroup)
	str("STUDY_STATS_WEEK_START", &c.Stats.WeekStart)
	str("STUDY_STATS_TIMEZONE", &c.Stats.Timezone)
	dur("STUDY_STATS_REFRESH_INTERVAL", &c.Stats.RefreshInterval)
	num("STUDY_STATS_FETCH_CONCURRENCY", &c.Stats.FetchConcurrency)

	// Session
	str("STUDY_SESSION_DEFAULT_SUBJECT", &c.Session.DefaultSubject)
	num("STUDY_SESSION_FOCUS_MINUTES", &c.Session.FocusMinutes)
	num("STUDY_SESSION_MAX_MINUTES", &c.Session.MaxMinutes)

	// Validation
	num("STUDY_VALIDATION_NAME_MAX", &c.Validation.NameMaxLength)
	num("STUDY_VALIDATION_TITLE_MAX", &c.Validation.TitleMaxLength)
	num("STUDY_VALIDATION_DESCRIPTION_MAX", &c.Validation.DescriptionMaxLength)

	// Notify
	flag("STUDY_NOTIFY_DESKTOP", &c.Notify.Desktop)
	str("STUDY_NOTIFY_APP_NAME", &c.Notify.AppName)

	// Application
	str("STUDY_USER", &c.Application.UserID)
	dur("STUDY_APP_TIMEOUT", &c.Application.Timeout)
	flag("STUDY_APP_VERBOSE", &c.Application.Verbose)
	str("STUDY_LOG_LEVEL", &c.Application.LogLevel)
	str("STUDY_LOG_FILE", &c.Application.LogFile)

	if len(errs) > 0 {
		return &ConfigError{Field: "environment", Message: strings.Join(errs, "; ")}
	}
	return nil
}

// Validate validates the configuration and returns the first problem found
func (c *Config) Validate() error {
	// Database
	switch c.Database.Backend {
	case BackendSQLite:
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case BackendPostgres:
		if c.Database.PostgresURL == "" {
			return &ConfigError{Field: "database.postgres_url", Message: "postgres backend needs a connection URL"}
		}
	default:
		return &ConfigError{Field: "database.backend", Message: fmt.Sprintf("unknown backend %q", c.Database.Backend)}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Cache
	switch c.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return &ConfigError{Field: "cache.redis_addr", Message: "redis cache needs an address"}
		}
	default:
		return &ConfigError{Field: "cache.backend", Message: fmt.Sprintf("unknown cache backend %q", c.Cache.Backend)}
	}
	if c.Cache.TTL < 0 {
		return &ConfigError{Field: "cache.ttl", Message: "cache ttl cannot be negative"}
	}

	// Stats
	if _, ok := parseWeekday(c.Stats.WeekStart); !ok {
		return &ConfigError{Field: "stats.week_start", Message: fmt.Sprintf("unknown weekday %q", c.Stats.WeekStart)}
	}
	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "stats.timezone", Message: err.Error()}
	}
	if c.Stats.RefreshInterval < time.Second {
		return &ConfigError{Field: "stats.refresh_interval", Message: "refresh interval must be at least 1s"}
	}
	if c.Stats.FetchConcurrency < 1 {
		return &ConfigError{Field: "stats.fetch_concurrency", Message: "fetch concurrency must be at least 1"}
	}

	// Session
	if strings.TrimSpace(c.Session.DefaultSubject) == "" {
		return &ConfigError{Field: "session.default_subject", Message: "default subject cannot be empty"}
	}
	if c.Session.FocusMinutes < 1 {
		return &ConfigError{Field: "session.focus_minutes", Message: "focus length must be at least one minute"}
	}
	if c.Session.MaxMinutes < c.Session.FocusMinutes {
		return &ConfigError{Field: "session.max_minutes", Message: "max session length must not be below the focus length"}
	}

	// Validation
	if c.Validation.NameMaxLength < 1 || c.Validation.TitleMaxLength < 1 || c.Validation.DescriptionMaxLength < 1 {
		return &ConfigError{Field: "validation", Message: "length limits must be positive"}
	}

	// Application
	if strings.TrimSpace(c.Application.UserID) == "" {
		return &ConfigError{Field: "application.user_id", Message: "user id cannot be empty"}
	}
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
