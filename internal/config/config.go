// Package config loads selfcare settings from selfcare.yaml, the
// environment and an optional .env file.
//
// Precedence, highest first: SELFCARE_* environment variables (dots in key
// names become underscores, e.g. SELFCARE_STORAGE_DRIVER), the config
// file, built-in defaults. Variables from .env never override variables
// already set in the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/roach88/selfcare/internal/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SELFCARE"

// Write-failure policies.
const (
	WriteFailureWarn   = "warn"
	WriteFailureIgnore = "ignore"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config is the complete runtime configuration.
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Export      ExportConfig      `mapstructure:"export"`
}

// StorageConfig selects the Persistence Gateway backend.
type StorageConfig struct {
	Driver string      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig is used when Driver is "redis".
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"` // rotated with lumberjack when set
}

// PersistenceConfig controls how failed writes are surfaced.
type PersistenceConfig struct {
	WriteFailure string `mapstructure:"write_failure"`
}

// ExportConfig controls data export.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Driver: store.DriverSQLite3,
			Path:   "selfcare.db",
			Redis: RedisConfig{
				Address: "localhost:6379",
				Prefix:  "selfcare:",
			},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: FormatConsole,
		},
		Persistence: PersistenceConfig{WriteFailure: WriteFailureWarn},
		Export:      ExportConfig{Dir: "."},
	}
}

// StoreOptions converts the storage section for store.Open.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Driver: c.Storage.Driver,
		Path:   c.Storage.Path,
		Redis: store.RedisOptions{
			Address:  c.Storage.Redis.Address,
			Password: c.Storage.Redis.Password,
			DB:       c.Storage.Redis.DB,
			Prefix:   c.Storage.Redis.Prefix,
		},
	}
}

// Validate rejects unknown enum values.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(store.Drivers, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q (want one of %s)",
			c.Storage.Driver, strings.Join(store.Drivers, ", ")))
	}
	if (c.Storage.Driver == store.DriverSQLite3 || c.Storage.Driver == store.DriverSQLite) && c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path: required for sqlite drivers"))
	}
	if c.Storage.Driver == store.DriverRedis && c.Storage.Redis.Address == "" {
		errs = append(errs, errors.New("storage.redis.address: required for redis driver"))
	}
	if c.Logging.Format != FormatJSON && c.Logging.Format != FormatConsole {
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	if c.Persistence.WriteFailure != WriteFailureWarn && c.Persistence.WriteFailure != WriteFailureIgnore {
		errs = append(errs, fmt.Errorf("persistence.write_failure: unknown policy %q", c.Persistence.WriteFailure))
	}
	return errors.Join(errs...)
}

// Load reads configuration. An explicit path must exist; without one,
// selfcare.yaml is searched for in $XDG_CONFIG_HOME/selfcare and the
// working directory, and its absence is not an error.
func Load(path string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("selfcare")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "selfcare"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.redis.address", d.Storage.Redis.Address)
	v.SetDefault("storage.redis.password", d.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", d.Storage.Redis.DB)
	v.SetDefault("storage.redis.prefix", d.Storage.Redis.Prefix)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("persistence.write_failure", d.Persistence.WriteFailure)
	v.SetDefault("export.dir", d.Export.Dir)
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}
