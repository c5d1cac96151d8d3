package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"study-tracker/internal/logging"
)

// EnvFileVariable names the variable that points at the env file.
const EnvFileVariable = "STUDY_ENV_FILE"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config  *Config
	envFile string
}

// NewLoader creates a loader reading $STUDY_ENV_FILE, or ~/.study/study.env.
func NewLoader() *Loader {
	envFile := os.Getenv(EnvFileVariable)
	if envFile == "" {
		envFile = filepath.Join(DefaultDir(), "study.env")
	}
	return NewLoaderWithFile(envFile)
}

// NewLoaderWithFile creates a loader reading the given env file. An empty
// path skips the file layer.
func NewLoaderWithFile(envFile string) *Loader {
	return &Loader{
		config:  NewConfig(),
		envFile: envFile,
	}
}

// Load resolves configuration in order: defaults, env file, process
// environment. Flags are layered on by LoadWithOverrides.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// loadEnvFile applies the env file if it exists. A missing file is fine.
func (l *Loader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	values, err := godotenv.Read(l.envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debugln("config: no env file at", l.envFile)
			return nil
		}
		return &ConfigError{Field: "env_file", Message: fmt.Sprintf("reading %s: %v", l.envFile, err)}
	}
	logging.Debugf("config: %d value(s) from %s\n", len(values), l.envFile)
	return l.config.LoadFromMap(values)
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.apply(l.config)
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// ConfigOverrides holds command line flag overrides. Nil fields are unset.
type ConfigOverrides struct {
	// Database
	Backend     *string
	DBDir       *string
	DBFilename  *string
	PostgresURL *string

	// Cache
	CacheBackend *string
	RedisAddr    *string

	// Stats
	Timezone  *string
	WeekStart *string

	// Notify
	Desktop *bool

	// Application
	UserID   *string
	Timeout  *time.Duration
	Verbose  *bool
	LogLevel *string
}

func (o *ConfigOverrides) apply(config *Config) {
	setString(&config.Database.Backend, o.Backend)
	setString(&config.Database.Dir, o.DBDir)
	setString(&config.Database.Filename, o.DBFilename)
	setString(&config.Database.PostgresURL, o.PostgresURL)

	setString(&config.Cache.Backend, o.CacheBackend)
	setString(&config.Cache.RedisAddr, o.RedisAddr)

	setString(&config.Stats.Timezone, o.Timezone)
	setString(&config.Stats.WeekStart, o.WeekStart)

	if o.Desktop != nil {
		config.Notify.Desktop = *o.Desktop
	}

	setString(&config.Application.UserID, o.UserID)
	if o.Timeout != nil {
		config.Application.Timeout = *o.Timeout
	}
	if o.Verbose != nil {
		config.Application.Verbose = *o.Verbose
		if *o.Verbose {
			config.Application.LogLevel = "debug"
		}
	}
	setString(&config.Application.LogLevel, o.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
