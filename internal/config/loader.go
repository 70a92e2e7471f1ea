package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".blossomchef"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration. Zero fields leave the
// corresponding Config value untouched.
type File struct {
	BaseURL      string        `yaml:"baseURL,omitempty"`
	Languages    []string      `yaml:"languages,omitempty"`
	DataDir      string        `yaml:"dataDir,omitempty"`
	CacheDir     string        `yaml:"cacheDir,omitempty"`
	ForeverHosts []string      `yaml:"foreverHosts,omitempty"`
	CacheMaxAge  time.Duration `yaml:"cacheMaxAge,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	CrawlDelay   time.Duration `yaml:"crawlDelay,omitempty"`
	UserAgent    string        `yaml:"userAgent,omitempty"`
	Overrides    string        `yaml:"overrides,omitempty"`
	Report       string        `yaml:"report,omitempty"`
	Channel      Channel       `yaml:"channel,omitempty"`
}

// ApplyTo overlays the non-zero values of f onto cfg.
func (f *File) ApplyTo(cfg *Config) {
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if len(f.Languages) > 0 {
		cfg.Languages = append([]string(nil), f.Languages...)
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.CacheDir != "" {
		cfg.CacheDir = f.CacheDir
	}
	if len(f.ForeverHosts) > 0 {
		cfg.ForeverHosts = append([]string(nil), f.ForeverHosts...)
	}
	if f.CacheMaxAge != 0 {
		cfg.CacheMaxAge = f.CacheMaxAge
	}
	if f.Timeout != 0 {
		cfg.Timeout = f.Timeout
	}
	if f.CrawlDelay != 0 {
		cfg.CrawlDelay = f.CrawlDelay
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Overrides != "" {
		cfg.OverridesFile = f.Overrides
	}
	if f.Report != "" {
		cfg.ReportFile = f.Report
	}
	if f.Channel.SourceDomain != "" {
		cfg.Channel.SourceDomain = f.Channel.SourceDomain
	}
	if f.Channel.SourceID != "" {
		cfg.Channel.SourceID = f.Channel.SourceID
	}
	if f.Channel.Title != "" {
		cfg.Channel.Title = f.Channel.Title
	}
	if f.Channel.Thumbnail != "" {
		cfg.Channel.Thumbnail = f.Channel.Thumbnail
	}
}

// LoadConfigFile loads the configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers decide whether that is fatal based on whether the path was
// given explicitly.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .blossomchef in the current directory
// 3. Look for .blossomchef in the XDG config directory
// 4. Look for .blossomchef in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	dirs = append(dirs, XDGConfigDir())
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
