package config

import "fmt"

// ValidateConfig performs comprehensive validation on the complete configuration
func ValidateConfig(config *Config) error {
	// Validate ledger storage configuration
	if err := config.Ledger.Validate(); err != nil {
		return fmt.Errorf("ledger config validation failed: %w", err)
	}

	// Validate diagnostics configuration
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}
	if err := config.Perf.Validate(); err != nil {
		return fmt.Errorf("perf config validation failed: %w", err)
	}

	return nil
}

// containsString checks if a string slice contains a value
func containsString(slice []string, value string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
