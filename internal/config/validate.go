package config

import "fmt"

// Validate ensures the configuration is usable. Directory existence is not
// checked here; commands verify their own inputs so that `config show` works
// before any directory exists.
func (c *Config) Validate() error {
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateConvert() error {
	if c.Convert.Workers < 0 {
		return fmt.Errorf("convert.workers must not be negative, got %d", c.Convert.Workers)
	}
	if c.Convert.StagingMaxAgeHours < 0 {
		return fmt.Errorf("convert.staging_max_age_hours must not be negative, got %d", c.Convert.StagingMaxAgeHours)
	}
	return nil
}

func (c *Config) validateLedger() error {
	if c.Ledger.Enabled && c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required while ledger.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
