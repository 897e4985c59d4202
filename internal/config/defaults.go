package config

import "github.com/spf13/viper"

// setDefaults sets the built-in default values for all configuration keys.
// Every key that can appear in the config file must have a default here, so
// environment variable overrides are picked up even without a config file.
func setDefaults(v *viper.Viper) {
	// Ledger storage defaults
	v.SetDefault("ledger.path", "/var/lib/shredstored/ledger")
	v.SetDefault("ledger.backend", "pebble")
	v.SetDefault("ledger.compression", "lz4")
	v.SetDefault("ledger.cache_size", 1024)
	v.SetDefault("ledger.shred_version", 0) // 0 accepts shreds from any network

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "") // empty means stderr
	v.SetDefault("log.format", "text")

	// Performance sampling defaults
	v.SetDefault("perf.enabled", true)
	v.SetDefault("perf.sample_period_secs", 60)
}
