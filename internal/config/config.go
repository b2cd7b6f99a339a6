package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/v0xg/remotedriver/internal/wire"
)

// Config holds the CLI configuration
type Config struct {
	Remote  RemoteConfig  `mapstructure:"remote"`
	Browser BrowserConfig `mapstructure:"browser"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// RemoteConfig points at a WebDriver server session
type RemoteConfig struct {
	URL            string        `mapstructure:"url"`
	SessionID      string        `mapstructure:"session_id"`
	Dialect        string        `mapstructure:"dialect"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// BrowserConfig configures the local rod browser used instead of a server
type BrowserConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	Headless   bool   `mapstructure:"headless"`
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	ProfileDir string `mapstructure:"profile_dir"` // Chrome/Chromium profile directory for authenticated sessions
}

// LoggerConfig configures zap
type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	ServiceName string `mapstructure:"service_name"`
	LogFile     string `mapstructure:"log_file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	Compress    bool   `mapstructure:"compress"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("remote.url", "http://localhost:4444/wd/hub")
	v.SetDefault("remote.session_id", "")
	v.SetDefault("remote.dialect", "w3c")
	v.SetDefault("remote.request_timeout", "30s")

	v.SetDefault("browser.enabled", false)
	v.SetDefault("browser.url", "about:blank")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.width", 1280)
	v.SetDefault("browser.height", 720)
	v.SetDefault("browser.profile_dir", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "remotedriver")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
}

// Load reads the config file (if any), environment and defaults into a Config.
// An explicit path must exist; the default search path may come up empty.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("REMOTEDRIVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("remotedriver")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/remotedriver")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected executor has what it needs
func (c *Config) Validate() error {
	if _, err := c.Dialect(); err != nil {
		return err
	}
	if c.Browser.Enabled {
		if c.Browser.Width <= 0 || c.Browser.Height <= 0 {
			return fmt.Errorf("invalid browser viewport %dx%d", c.Browser.Width, c.Browser.Height)
		}
		return nil
	}
	if c.Remote.URL == "" {
		return errors.New("remote.url is required")
	}
	if c.Remote.SessionID == "" {
		return errors.New("remote.session_id is required (or enable browser mode)")
	}
	return nil
}

// Dialect returns the parsed remote dialect
func (c *Config) Dialect() (wire.Dialect, error) {
	return wire.ParseDialect(c.Remote.Dialect)
}
