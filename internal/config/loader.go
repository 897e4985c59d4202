package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file (shredstored.toml)
// 3. Environment variables (SHREDSTORED_ prefix)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults first
	setDefaults(v)

	// 2. Load the configuration file
	if err := loadConfigFile(v, configPath); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. Set up environment variable support
	v.SetEnvPrefix("SHREDSTORED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Unmarshal into the config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.configPath = configPath

	// 5. Validate the complete configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// LoadDefault returns the built-in default configuration without reading any
// file. Environment variables with the SHREDSTORED_ prefix still apply.
func LoadDefault() (*Config, error) {
	return Load("")
}

// loadConfigFile reads the configuration file into the viper instance. An
// empty path means run on defaults and environment variables alone.
func loadConfigFile(v *viper.Viper, configPath string) error {
	if configPath == "" {
		return nil
	}

	v.SetConfigFile(configPath)

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	return nil
}

// SaveExampleConfig generates an example configuration file at the given path
func SaveExampleConfig(configPath string) error {
	exampleConfig := generateExampleConfig()

	v := viper.New()

	// Set all example values
	for key, value := range exampleConfig {
		v.Set(key, value)
	}

	// Write to file
	v.SetConfigFile(configPath)
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}

	return nil
}

// generateExampleConfig generates example configuration values
func generateExampleConfig() map[string]interface{} {
	return map[string]interface{}{
		"ledger.path":          "/var/lib/shredstored/ledger",
		"ledger.backend":       "pebble",
		"ledger.compression":   "lz4",
		"ledger.cache_size":    1024,
		"ledger.shred_version": 0,

		"log.level":  "info",
		"log.file":   "/var/log/shredstored/debug.log",
		"log.format": "text",

		"perf.enabled":            true,
		"perf.sample_period_secs": 60,
	}
}
