package config

// Config represents the complete shredstored configuration, assembled from
// the TOML configuration file, environment variables and built-in defaults.
type Config struct {
	// Ledger storage settings
	Ledger LedgerConfig `toml:"ledger" mapstructure:"ledger"`

	// Diagnostics settings
	Log  LogConfig  `toml:"log" mapstructure:"log"`
	Perf PerfConfig `toml:"perf" mapstructure:"perf"`

	// Internal fields (not from config file)
	configPath string `toml:"-" mapstructure:"-"`
}

// GetConfigPath returns the path of the configuration file this Config was
// loaded from, or the empty string when only defaults were used.
func (c *Config) GetConfigPath() string {
	return c.configPath
}
