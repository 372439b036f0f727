// Package config loads, validates, and defaults the TOML configuration for
// the converter. Configuration lives at ~/.config/readaisy/config.toml by
// default; every value can also be left unset and overridden per run with
// CLI flags.
package config
