// Package config provides Viper-based configuration for casetracker
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config represents the complete casetracker configuration
type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Server   ServerConfig   `mapstructure:"server"`
	Display  DisplayConfig  `mapstructure:"display"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
}

// UpstreamConfig points at the statistics API
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig contains HTTP dashboard settings
type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"`
}

// DisplayConfig controls how series are formatted and windowed
type DisplayConfig struct {
	Locale      string `mapstructure:"locale"`
	Timezone    string `mapstructure:"timezone"`
	ChartWindow int    `mapstructure:"chart_window"`
	StalePolicy string `mapstructure:"stale_policy"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig contains terminal output settings
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads .env, the config file and CASETRACKER_* environment variables
func Load(cfgFile string) (*Config, error) {
	// A missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".casetracker")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/casetracker")
	}

	v.SetEnvPrefix("CASETRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("upstream.base_url", "https://api.covidtracking.com/v2")
	v.SetDefault("upstream.timeout", time.Duration(0))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 20.0)

	v.SetDefault("display.locale", "en-US")
	v.SetDefault("display.timezone", "Local")
	v.SetDefault("display.chart_window", 30)
	v.SetDefault("display.stale_policy", "last-writer-wins")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("output.colors", true)
}

func validate(cfg *Config) error {
	if cfg.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url must not be empty")
	}
	if cfg.Upstream.Timeout < 0 {
		return fmt.Errorf("invalid upstream.timeout: %s", cfg.Upstream.Timeout)
	}

	if _, err := cfg.Language(); err != nil {
		return err
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if cfg.Display.ChartWindow < 0 {
		return fmt.Errorf("invalid display.chart_window: %d", cfg.Display.ChartWindow)
	}
	switch cfg.Display.StalePolicy {
	case "last-writer-wins", "latest-only":
	default:
		return fmt.Errorf("invalid display.stale_policy: %s (must be last-writer-wins or latest-only)", cfg.Display.StalePolicy)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", cfg.Logging.Format)
	}

	return nil
}

// Language parses display.locale
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Display.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid display.locale %q: %w", c.Display.Locale, err)
	}
	return tag, nil
}

// Location resolves display.timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display.timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}
