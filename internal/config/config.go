package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/bundlex-labs/bundlex/internal/branding"
	"github.com/bundlex-labs/bundlex/internal/platform"
	"github.com/bundlex-labs/bundlex/internal/project"
)

const fileType = "yaml"

// Setting keys.
const (
	KeyDocument     = "document"
	KeyAssetsRoot   = "assets_root"
	KeyCatalogCache = "catalog_cache"
	KeyMetricsFile  = "metrics_file"
	KeyLogLevel     = "log_level"
)

// Keys lists every recognized setting.
var Keys = []string{KeyDocument, KeyAssetsRoot, KeyCatalogCache, KeyMetricsFile, KeyLogLevel}

// Config is the settings of one project.
type Config struct {
	root string
	file string
	v    *viper.Viper
}

// Settings are the resolved values commands work with.
type Settings struct {
	Layout      project.Layout
	MetricsFile string // empty when metrics are not written
	LogLevel    slog.Level
}

// Load reads the config file of the project at root, if any, and binds
// environment overrides. A missing config file is not an error.
func Load(root string) (*Config, error) {
	file := filepath.Join(project.SettingsDir(root), project.ConfigFile)

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	defaults := project.DefaultLayout(root)
	v.SetDefault(KeyDocument, rel(root, defaults.Document))
	v.SetDefault(KeyAssetsRoot, rel(root, defaults.AssetsRoot))
	v.SetDefault(KeyCatalogCache, rel(root, defaults.CatalogCache))
	v.SetDefault(KeyMetricsFile, "")
	v.SetDefault(KeyLogLevel, "info")

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", file, err)
	}
	return &Config{root: root, file: file, v: v}, nil
}

// Root returns the project root the config belongs to.
func (c *Config) Root() string { return c.root }

// File returns the config file path.
func (c *Config) File() string { return c.file }

// Get returns a config value by key. Returns empty string if not set.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Set writes a key-value pair and saves the config file. Only keys listed
// in Keys are accepted.
func (c *Config) Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys, ", "))
	}
	if key == KeyLogLevel {
		if _, err := ParseLevel(value); err != nil {
			return err
		}
	}

	dir := filepath.Dir(c.file)
	if err := os.MkdirAll(dir, platform.DirPermProject); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	c.v.Set(key, value)
	if err := c.v.WriteConfigAs(c.file); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Settings resolves the configured values. Relative paths are taken from
// the project root.
func (c *Config) Settings() (Settings, error) {
	level, err := ParseLevel(c.Get(KeyLogLevel))
	if err != nil {
		return Settings{}, err
	}

	l := project.DefaultLayout(c.root)
	l.ConfigFile = c.file
	l.Document = c.path(KeyDocument)
	l.AssetsRoot = c.path(KeyAssetsRoot)
	l.CatalogCache = c.path(KeyCatalogCache)

	return Settings{
		Layout:      l,
		MetricsFile: c.path(KeyMetricsFile),
		LogLevel:    level,
	}, nil
}

func (c *Config) path(key string) string {
	p := c.Get(key)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, filepath.FromSlash(p))
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func rel(root, path string) string {
	r, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(r)
}
