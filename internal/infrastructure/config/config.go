// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/ersonp/genlib/internal/domain/entities"
)

const (
	// DefaultConfigDir is the directory name for genlib configuration.
	DefaultConfigDir = ".genlib"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultTreesFile is the default family trees file name.
	DefaultTreesFile = "trees.yaml"
	// DefaultTree is the tree used when --tree is not given.
	DefaultTree = "default"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static configuration (read-only after init).
// Environment variables override the file; env-default supplies the rest.
type Config struct {
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	Naming NamingConfig `yaml:"naming"`
	Log    LogConfig    `yaml:"log"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path overrides the per-tree database path computed by SQLitePathForTree.
	Path string `yaml:"path,omitempty" env:"GENLIB_SQLITE_PATH"`
}

// NamingConfig controls how person directory names are built.
type NamingConfig struct {
	Format string `yaml:"format" env:"GENLIB_NAMING_FORMAT" env-default:"firstname_first"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" env:"GENLIB_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"GENLIB_LOG_FORMAT" env-default:"text"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Naming: NamingConfig{Format: string(entities.DirNameFirstnameFirst)},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load loads configuration from the .genlib directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'genlib init' first)", configFile)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configFile, &cfg); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that cleanenv cannot.
func (c *Config) Validate() error {
	if _, err := c.DirNameFormat(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (valid: text, json)", c.Log.Format)
	}
	return nil
}

// DirNameFormat returns the configured directory naming policy.
func (c *Config) DirNameFormat() (entities.DirNameFormat, error) {
	return entities.ParseDirNameFormat(c.Naming.Format)
}

// ConfigDir returns the path to the .genlib config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// TreesFilePath returns the path to the trees file.
func TreesFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultTreesFile)
}

// Exists checks if a genlib config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// SanitizeTreeName converts a tree name to a safe directory name.
func SanitizeTreeName(name string) string {
	name = strings.ToLower(name)

	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	name = reNonAlphanumeric.ReplaceAllString(name, "")
	name = reMultipleUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return DefaultTree
	}

	return name
}

// SQLitePathForTree returns the SQLite database path for a given tree.
func SQLitePathForTree(basePath, treeName string) string {
	return filepath.Join(TreeDir(basePath, treeName), "genlib.db")
}

// TreeDir returns the directory path for a given tree.
func TreeDir(basePath, treeName string) string {
	return filepath.Join(basePath, DefaultConfigDir, "trees", SanitizeTreeName(treeName))
}
