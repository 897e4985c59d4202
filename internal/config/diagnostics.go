package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LogConfig represents the [log] section
// Configuration of diagnostic logging output
type LogConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	File   string `toml:"file" mapstructure:"file"`
	Format string `toml:"format" mapstructure:"format"`
}

// PerfConfig represents the [perf] section
// Configuration of periodic throughput sampling
type PerfConfig struct {
	Enabled          bool `toml:"enabled" mapstructure:"enabled"`
	SamplePeriodSecs int  `toml:"sample_period_secs" mapstructure:"sample_period_secs"`
}

// Validate performs validation on the Log configuration
func (l *LogConfig) Validate() error {
	// Validate level
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("invalid log level: %s (valid options: trace, debug, info, warn, error, fatal, panic)", l.Level)
	}

	// Validate format
	validFormats := []string{"text", "json"}
	if !containsString(validFormats, l.Format) {
		return fmt.Errorf("invalid log format: %s (valid options: text, json)", l.Format)
	}

	return nil
}

// ParseLevel returns the configured log level as a logrus level.
func (l *LogConfig) ParseLevel() (logrus.Level, error) {
	return logrus.ParseLevel(l.Level)
}

// Validate performs validation on the Perf configuration
func (p *PerfConfig) Validate() error {
	if !p.Enabled {
		// Sampling disabled, nothing else to check
		return nil
	}

	if p.SamplePeriodSecs <= 0 {
		return fmt.Errorf("sample_period_secs must be positive, got %d", p.SamplePeriodSecs)
	}

	return nil
}
