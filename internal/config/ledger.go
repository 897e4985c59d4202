package config

import "fmt"

// LedgerConfig represents the [ledger] section
// Configures the persistent shred and metadata store
type LedgerConfig struct {
	Path         string `toml:"path" mapstructure:"path"`
	Backend      string `toml:"backend" mapstructure:"backend"`
	Compression  string `toml:"compression" mapstructure:"compression"`
	CacheSize    int    `toml:"cache_size" mapstructure:"cache_size"`
	ShredVersion int    `toml:"shred_version" mapstructure:"shred_version"`
}

// Validate performs validation on the Ledger configuration
func (l *LedgerConfig) Validate() error {
	// Validate path
	if l.Path == "" {
		return fmt.Errorf("ledger path is required")
	}

	// Validate backend
	validBackends := []string{"pebble", "leveldb"}
	if !containsString(validBackends, l.Backend) {
		return fmt.Errorf("invalid ledger backend: %s (valid options: pebble, leveldb)", l.Backend)
	}

	// Validate compression
	validCompression := []string{"lz4", "none"}
	if !containsString(validCompression, l.Compression) {
		return fmt.Errorf("invalid ledger compression: %s (valid options: lz4, none)", l.Compression)
	}

	// Validate cache settings
	if l.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", l.CacheSize)
	}

	// Validate shred_version (a u16 on the wire, 0 accepts any)
	if l.ShredVersion < 0 || l.ShredVersion > 65535 {
		return fmt.Errorf("shred_version must be between 0 and 65535, got %d", l.ShredVersion)
	}

	return nil
}
