package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".gomws"))
		}

		// Check /etc
		v.AddConfigPath("/etc/gomws/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	// Mock defaults
	v.SetDefault("mock.enabled", false)
	v.SetDefault("mock.dir", "mock")
}

// Store selects a store by name. An empty name picks "default", or the
// only store when exactly one is configured.
func (c *Config) Store(name string) (StoreConfig, error) {
	if name == "" {
		if store, ok := c.Stores["default"]; ok {
			return store, nil
		}
		if len(c.Stores) == 1 {
			for _, store := range c.Stores {
				return store, nil
			}
		}
		return StoreConfig{}, fmt.Errorf("no store selected and no 'default' store configured")
	}
	store, ok := c.Stores[name]
	if !ok {
		return StoreConfig{}, fmt.Errorf("store '%s' not found in config", name)
	}
	return store, nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if len(cfg.Stores) == 0 {
		return fmt.Errorf("at least one store must be configured")
	}

	for name, store := range cfg.Stores {
		if store.SellerID == "" {
			return fmt.Errorf("stores.%s.seller_id is required", name)
		}
		if store.AccessKeyID == "" {
			return fmt.Errorf("stores.%s.access_key_id is required", name)
		}
		if store.SecretKey == "" || store.SecretKey == "your-secret-key-here" {
			return fmt.Errorf("stores.%s.secret_key must be set to a valid secret key", name)
		}
	}

	if cfg.Mock.Enabled && len(cfg.Mock.Files) == 0 {
		return fmt.Errorf("mock.files must list at least one fixture when mock.enabled is true")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
