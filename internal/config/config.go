// Package config loads catalog settings from a YAML file, CATALOG_* environment
// variables and defaults, in that order of precedence (flags are applied by the CLI).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CATALOG"

// Keys.
const (
	KeyStorage     = "storage"
	KeyDataDir     = "data_dir"
	KeySource      = "source"
	KeyPageLimit   = "page_limit"
	KeyMaxHistory  = "max_history"
	KeyLogLevel    = "log_level"
	KeyHTTPTimeout = "http_timeout"
)

type Config struct {
	// Storage is the history backend: sqlite|badger|file|memory.
	Storage string `mapstructure:"storage"`
	DataDir string `mapstructure:"data_dir"`

	// Source is "static" for the built-in dataset, otherwise the base URL of a server
	// exposing GET /api/items.
	Source string `mapstructure:"source"`

	PageLimit   int           `mapstructure:"page_limit"`
	MaxHistory  int           `mapstructure:"max_history"`
	LogLevel    string        `mapstructure:"log_level"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// Dir is the default config directory ($HOME/.config/catalog).
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("CATALOG_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "catalog"), nil
}

// New returns a viper instance with defaults, env binding and (if present) the config
// file loaded. cfgFile overrides the default location; a missing default file is fine, a
// missing explicit file is an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return v, nil
	}

	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorage, "sqlite")
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeySource, "static")
	v.SetDefault(KeyPageLimit, 10)
	v.SetDefault(KeyMaxHistory, 20)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyHTTPTimeout, 10*time.Second)
}

// Decode reads v into a Config and normalizes out-of-range values.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	c.Source = strings.TrimSpace(c.Source)
	if c.PageLimit < 1 {
		c.PageLimit = 10
	}
	if c.MaxHistory < 1 {
		c.MaxHistory = 20
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	return c, nil
}

// Load is New followed by Decode.
func Load(cfgFile string) (Config, error) {
	v, err := New(cfgFile)
	if err != nil {
		return Config{}, err
	}
	return Decode(v)
}
