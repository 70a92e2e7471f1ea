package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/blossomchef/internal/lang"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "blossomchef"

	// DefaultBaseURL is the root of the lesson site.
	DefaultBaseURL = "https://blossoms.mit.edu"

	// DefaultLanguagesPath is the path of the by-language index page.
	DefaultLanguagesPath = "/videos/by_language"

	// DefaultDataDir holds the persisted trees and the resource archives.
	DefaultDataDir = "chefdata"

	// DefaultTimeout is the per-request HTTP timeout. Lesson videos are
	// not downloaded, so pages are small.
	DefaultTimeout = 60 * time.Second

	// DefaultCrawlDelay disables throttling. The response cache absorbs
	// most repeated requests.
	DefaultCrawlDelay = 0

	// DefaultUserAgent identifies the chef in HTTP requests.
	DefaultUserAgent = "blossomchef/1.0 (+https://github.com/nao1215/blossomchef)"

	// DefaultMaxBodySize limits the response body size read per request.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// TokenEnv is the environment variable holding the content server token.
	TokenEnv = "CONTENT_CURATION_TOKEN"
)

// DefaultForeverHosts are hosts whose responses never change and are cached
// without expiry.
var DefaultForeverHosts = []string{
	"blossoms.mit.edu",
	"d1baxxa0joomi3.cloudfront.net",
	"techtv.mit.edu",
}

// Stage is one step of the chef pipeline.
type Stage string

// Pipeline stages.
const (
	StageCrawl   Stage = "crawl"
	StageScrape  Stage = "scrape"
	StageChannel Stage = "channel"
	StageAll     Stage = "all"
)

// ParseStages expands "all" and validates stage names. Order is kept and
// duplicates are dropped.
func ParseStages(names []string) ([]Stage, error) {
	var out []Stage
	seen := make(map[Stage]bool)
	add := func(s Stage) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, name := range names {
		switch s := Stage(strings.ToLower(strings.TrimSpace(name))); s {
		case StageAll:
			add(StageCrawl)
			add(StageScrape)
			add(StageChannel)
		case StageCrawl, StageScrape, StageChannel:
			add(s)
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidStage, name)
		}
	}
	return out, nil
}

// Channel is the metadata of the content tree root.
type Channel struct {
	SourceDomain string `yaml:"sourceDomain,omitempty"`
	SourceID     string `yaml:"sourceId,omitempty"`
	Title        string `yaml:"title,omitempty"`
	Thumbnail    string `yaml:"thumbnail,omitempty"`
}

// DefaultChannel returns the default channel metadata.
func DefaultChannel() Channel {
	return Channel{
		SourceDomain: "blossoms.mit.edu",
		SourceID:     "mit_blossoms",
		Title:        "MIT Blossoms",
		Thumbnail:    "https://pk12.mit.edu/files/2016/02/MIT-Blossoms.png",
	}
}

// Config holds all configuration options for blossomchef. It is populated
// from defaults, the config file and CLI flags, then passed explicitly to
// the components that need it.
type Config struct {
	// BaseURL is the site root, without trailing slash.
	BaseURL string

	// LanguagesPath is the path of the by-language index page.
	LanguagesPath string

	// Languages selects the language listings to crawl and the video
	// variants to emit. Defaults to every supported language.
	Languages []string

	// Stages lists the pipeline stages to run, in order.
	Stages []Stage

	// Pruned truncates the content tree to a small fixed subset before the
	// channel stage. The full tree is backed up first.
	Pruned bool

	// DataDir holds raw_resource_tree.json, content_tree.json and the
	// zipped additional resources.
	DataDir string

	// CacheDir holds the SQLite response cache. Empty disables caching.
	CacheDir string

	// ForeverHosts are cached without expiry.
	ForeverHosts []string

	// CacheMaxAge is how long responses from other hosts are reused.
	// Zero means they are never cached.
	CacheMaxAge time.Duration

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// CrawlDelay is the minimum interval between network requests.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// OverridesFile is a JSON override file applied after the scrape stage.
	// Empty means no overrides.
	OverridesFile string

	// ReportFile receives the Markdown channel summary. Empty writes it to
	// DataDir/channel_summary.md.
	ReportFile string

	// Channel is the metadata of the tree root.
	Channel Channel

	// Token authenticates against the content server. It is never logged
	// in clear text.
	Token string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches the log output to JSON.
	LogJSON bool

	// ConfigFilePath is the configuration file path. If empty, the tool
	// searches for .blossomchef in the current and home directories.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		LanguagesPath: DefaultLanguagesPath,
		Languages:     lang.Supported(),
		Stages:        []Stage{StageCrawl, StageScrape, StageChannel},
		DataDir:       DefaultDataDir,
		CacheDir:      XDGCacheDir(),
		ForeverHosts:  append([]string(nil), DefaultForeverHosts...),
		Timeout:       DefaultTimeout,
		CrawlDelay:    DefaultCrawlDelay,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		Channel:       DefaultChannel(),
	}
}

// RawTreePath is where the crawl stage stores the raw resource tree.
func (c *Config) RawTreePath() string {
	return filepath.Join(c.DataDir, "raw_resource_tree.json")
}

// ContentTreePath is where the scrape stage stores the content tree.
func (c *Config) ContentTreePath() string {
	return filepath.Join(c.DataDir, "content_tree.json")
}

// FullTreeBackupPath receives the full content tree before pruning.
func (c *Config) FullTreeBackupPath() string {
	return filepath.Join(c.DataDir, "content_tree_full.json")
}

// ArchiveDir holds the zipped additional resources.
func (c *Config) ArchiveDir() string {
	return filepath.Join(c.DataDir, "archives")
}

// SummaryPath returns where the Markdown channel summary is written.
func (c *Config) SummaryPath() string {
	if c.ReportFile != "" {
		return c.ReportFile
	}
	return filepath.Join(c.DataDir, "channel_summary.md")
}

// XDGCacheDir returns the XDG cache directory for blossomchef.
// On Linux: ~/.cache/blossomchef
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGConfigDir returns the XDG config directory for blossomchef.
// On Linux: ~/.config/blossomchef
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first violated rule.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	if len(c.Languages) == 0 {
		return ErrNoLanguages
	}
	if len(c.Stages) == 0 {
		return ErrNoStages
	}
	for _, s := range c.Stages {
		switch s {
		case StageCrawl, StageScrape, StageChannel:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidStage, s)
		}
	}
	if c.DataDir == "" {
		return ErrNoDataDir
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.CacheMaxAge < 0 {
		return ErrInvalidCacheMaxAge
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Channel.SourceDomain == "" || c.Channel.SourceID == "" || c.Channel.Title == "" {
		return ErrIncompleteChannel
	}
	return nil
}
