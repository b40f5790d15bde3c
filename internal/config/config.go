package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port (default: 8080)
		BaseURL string `mapstructure:"base_url"` // Base URL for generating short links
	} `mapstructure:"server"`

	Storage StorageConfig `mapstructure:"storage"`

	// Links holds the shortening rules
	Links struct {
		DefaultValidityMinutes int `mapstructure:"default_validity_minutes"`
		ShortcodeLength        int `mapstructure:"shortcode_length"`
		MaxBatchSize           int `mapstructure:"max_batch_size"`
	} `mapstructure:"links"`

	// Monitor configuration for expiry tracking
	Monitor struct {
		IntervalMinutes int `mapstructure:"interval_minutes"` // Interval in minutes between expiry scans
	} `mapstructure:"monitor"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// StorageConfig selects and configures the key-value backend holding the links.
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`      // memory, sqlite or redis
	Key        string `mapstructure:"key"`         // Slot key holding the serialized link collection
	SQLitePath string `mapstructure:"sqlite_path"` // SQLite database file name
	Redis      struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
}

// DefaultStorageKey is the slot key the link collection is persisted under.
const DefaultStorageKey = "shortUrls"

// LoadConfig loads the application configuration using Viper.
// An optional .env file is loaded first so its values act as environment overrides.
func LoadConfig() (*Config, error) {
	// Ignore error if .env not found
	_ = godotenv.Load()

	v := viper.New()

	// e.g., "storage.driver" becomes "STORAGE_DRIVER"
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AddConfigPath("./configs")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using default values")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.key", DefaultStorageKey)
	v.SetDefault("storage.sqlite_path", "url_shortener.db")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("links.default_validity_minutes", 30)
	v.SetDefault("links.shortcode_length", 6)
	v.SetDefault("links.max_batch_size", 5)
	v.SetDefault("monitor.interval_minutes", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Server.Port)
	}

	switch c.Storage.Driver {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("invalid storage driver: %q (must be memory, sqlite or redis)", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key cannot be empty")
	}

	if c.Links.DefaultValidityMinutes <= 0 {
		return fmt.Errorf("default validity must be positive, got %d", c.Links.DefaultValidityMinutes)
	}
	if c.Links.ShortcodeLength <= 0 {
		return fmt.Errorf("shortcode length must be positive, got %d", c.Links.ShortcodeLength)
	}
	if c.Links.MaxBatchSize <= 0 {
		return fmt.Errorf("max batch size must be positive, got %d", c.Links.MaxBatchSize)
	}
	if c.Monitor.IntervalMinutes <= 0 {
		return fmt.Errorf("monitor interval must be positive, got %d", c.Monitor.IntervalMinutes)
	}

	return nil
}
