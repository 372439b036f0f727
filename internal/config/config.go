package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Convert contains behavior settings for the conversion pipeline.
type Convert struct {
	// Workers bounds how many books are converted concurrently. Zero means
	// one worker per CPU.
	Workers           int  `toml:"workers"`
	OverwriteExisting bool `toml:"overwrite_existing"`
	// StagingMaxAgeHours controls when leftover staging directories from
	// crashed runs are removed. Zero disables the cleanup.
	StagingMaxAgeHours int `toml:"staging_max_age_hours"`
}

// Ledger contains configuration for the conversion run history database.
type Ledger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the converter.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Convert Convert `toml:"convert"`
	Ledger  Ledger  `toml:"ledger"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/readaisy/config.toml")
}

// Load locates and parses a configuration file, layering it over defaults
// and validating the result. An empty path means the default location; a
// missing file at the default location is not an error and yields the
// defaults.
func Load(path string) (*Config, string, error) {
	usingDefault := strings.TrimSpace(path) == ""
	if usingDefault {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = defaultPath
	}
	path, err := expandPath(path)
	if err != nil {
		return nil, "", err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && usingDefault:
		// First run without a config file; flags must fill the gaps.
	case err != nil:
		return nil, "", fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, path, nil
}

// WriteSample writes the annotated sample configuration to path, creating
// parent directories. It refuses to overwrite an existing file.
func WriteSample(path string) error {
	path, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the directories the converter writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.LogDir}
	if c.Ledger.Enabled {
		dirs = append(dirs, filepath.Dir(c.Ledger.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// normalize expands ~ and makes configured paths absolute.
func (c *Config) normalize() error {
	for _, p := range []*string{
		&c.Paths.InputDir,
		&c.Paths.OutputDir,
		&c.Paths.LogDir,
		&c.Ledger.Path,
	} {
		if strings.TrimSpace(*p) == "" {
			continue
		}
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
