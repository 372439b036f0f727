package config

const (
	defaultLogDir             = "~/.local/share/readaisy/logs"
	defaultLedgerPath         = "~/.local/share/readaisy/history.db"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultStagingMaxAgeHours = 24
)

// Default returns a Config populated with repository defaults. Input and
// output directories have no sensible defaults and stay empty until the
// config file or CLI flags provide them.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Convert: Convert{
			StagingMaxAgeHours: defaultStagingMaxAgeHours,
		},
		Ledger: Ledger{
			Enabled: true,
			Path:    defaultLedgerPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
