package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/blossomchef/internal/lang"
)

// TestNewConfig pins the defaults so that changes to them are intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BaseURL is the lesson site", func(t *testing.T) {
		t.Parallel()
		if cfg.BaseURL != "https://blossoms.mit.edu" {
			t.Errorf("expected BaseURL to be https://blossoms.mit.edu, got %q", cfg.BaseURL)
		}
	})

	t.Run("default Languages are every supported language", func(t *testing.T) {
		t.Parallel()
		if !slices.Equal(cfg.Languages, lang.Supported()) {
			t.Errorf("expected %v, got %v", lang.Supported(), cfg.Languages)
		}
	})

	t.Run("default Stages run the whole pipeline", func(t *testing.T) {
		t.Parallel()
		want := []Stage{StageCrawl, StageScrape, StageChannel}
		if !slices.Equal(cfg.Stages, want) {
			t.Errorf("expected %v, got %v", want, cfg.Stages)
		}
	})

	t.Run("default Timeout is 60 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 60*time.Second {
			t.Errorf("expected Timeout to be 60s, got %v", cfg.Timeout)
		}
	})

	t.Run("default Pruned is false", func(t *testing.T) {
		t.Parallel()
		if cfg.Pruned {
			t.Error("expected Pruned to be false")
		}
	})

	t.Run("default CacheMaxAge caches forever hosts only", func(t *testing.T) {
		t.Parallel()
		if cfg.CacheMaxAge != 0 {
			t.Errorf("expected CacheMaxAge to be 0, got %v", cfg.CacheMaxAge)
		}
		if !slices.Contains(cfg.ForeverHosts, "blossoms.mit.edu") {
			t.Errorf("expected blossoms.mit.edu in ForeverHosts, got %v", cfg.ForeverHosts)
		}
	})

	t.Run("default Channel identifies the site", func(t *testing.T) {
		t.Parallel()
		if cfg.Channel.SourceID != "mit_blossoms" || cfg.Channel.Title != "MIT Blossoms" {
			t.Errorf("unexpected channel defaults: %+v", cfg.Channel)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to validate, got %v", err)
		}
	})
}

func TestNewConfigDoesNotShareForeverHosts(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.ForeverHosts[0] = "changed.example"
	if DefaultForeverHosts[0] == "changed.example" {
		t.Error("NewConfig must copy DefaultForeverHosts")
	}
}

// TestConfigValidate tests one validation rule per case.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "valid config", modify: func(*Config) {}, want: nil},
		{name: "empty base URL", modify: func(c *Config) { c.BaseURL = "" }, want: ErrNoBaseURL},
		{name: "no languages", modify: func(c *Config) { c.Languages = nil }, want: ErrNoLanguages},
		{name: "no stages", modify: func(c *Config) { c.Stages = nil }, want: ErrNoStages},
		{name: "unknown stage", modify: func(c *Config) { c.Stages = []Stage{"upload"} }, want: ErrInvalidStage},
		{name: "unexpanded all stage", modify: func(c *Config) { c.Stages = []Stage{StageAll} }, want: ErrInvalidStage},
		{name: "empty data dir", modify: func(c *Config) { c.DataDir = "" }, want: ErrNoDataDir},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, want: ErrInvalidTimeout},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, want: ErrInvalidTimeout},
		{name: "negative crawl delay", modify: func(c *Config) { c.CrawlDelay = -time.Second }, want: ErrInvalidCrawlDelay},
		{name: "zero crawl delay", modify: func(c *Config) { c.CrawlDelay = 0 }, want: nil},
		{name: "negative cache max age", modify: func(c *Config) { c.CacheMaxAge = -time.Hour }, want: ErrInvalidCacheMaxAge},
		{name: "zero max body size", modify: func(c *Config) { c.MaxBodySize = 0 }, want: ErrInvalidMaxBodySize},
		{name: "empty channel title", modify: func(c *Config) { c.Channel.Title = "" }, want: ErrIncompleteChannel},
		{name: "empty thumbnail is allowed", modify: func(c *Config) { c.Channel.Thumbnail = "" }, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseStages(t *testing.T) {
	t.Parallel()

	t.Run("all expands in pipeline order", func(t *testing.T) {
		t.Parallel()
		got, err := ParseStages([]string{"all"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []Stage{StageCrawl, StageScrape, StageChannel}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("keeps the given order and drops duplicates", func(t *testing.T) {
		t.Parallel()
		got, err := ParseStages([]string{"scrape", " Channel ", "scrape"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []Stage{StageScrape, StageChannel}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("rejects unknown stages", func(t *testing.T) {
		t.Parallel()
		_, err := ParseStages([]string{"crawl", "upload"})
		if !errors.Is(err, ErrInvalidStage) {
			t.Errorf("expected ErrInvalidStage, got %v", err)
		}
	})
}

func TestConfigPaths(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.DataDir = "out"

	if got := cfg.RawTreePath(); got != filepath.Join("out", "raw_resource_tree.json") {
		t.Errorf("RawTreePath() = %q", got)
	}
	if got := cfg.ContentTreePath(); got != filepath.Join("out", "content_tree.json") {
		t.Errorf("ContentTreePath() = %q", got)
	}
	if got := cfg.FullTreeBackupPath(); got != filepath.Join("out", "content_tree_full.json") {
		t.Errorf("FullTreeBackupPath() = %q", got)
	}
	if got := cfg.SummaryPath(); got != filepath.Join("out", "channel_summary.md") {
		t.Errorf("SummaryPath() = %q", got)
	}
	cfg.ReportFile = "summary.md"
	if got := cfg.SummaryPath(); got != "summary.md" {
		t.Errorf("SummaryPath() with ReportFile = %q", got)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.blossomchef")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".blossomchef")
		content := `languages:
  - English
  - Arabic
dataDir: /tmp/chef
crawlDelay: 500ms
cacheMaxAge: 24h
overrides: overrides.json
channel:
  sourceId: blossoms_test
  title: Blossoms Test
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		f, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(f.Languages, []string{"English", "Arabic"}) {
			t.Errorf("unexpected languages: %v", f.Languages)
		}
		if f.CrawlDelay != 500*time.Millisecond {
			t.Errorf("expected crawlDelay 500ms, got %v", f.CrawlDelay)
		}
		if f.CacheMaxAge != 24*time.Hour {
			t.Errorf("expected cacheMaxAge 24h, got %v", f.CacheMaxAge)
		}
		if f.Channel.SourceID != "blossoms_test" {
			t.Errorf("expected channel sourceId, got %q", f.Channel.SourceID)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".blossomchef")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestFileApplyTo(t *testing.T) {
	t.Parallel()

	t.Run("overlays non-zero values", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		f := &File{
			Languages:  []string{"Urdu"},
			DataDir:    "elsewhere",
			CrawlDelay: time.Second,
			Overrides:  "fix.json",
			Channel:    Channel{Title: "Blossoms Urdu"},
		}
		f.ApplyTo(cfg)

		if !slices.Equal(cfg.Languages, []string{"Urdu"}) {
			t.Errorf("unexpected languages: %v", cfg.Languages)
		}
		if cfg.DataDir != "elsewhere" || cfg.CrawlDelay != time.Second || cfg.OverridesFile != "fix.json" {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.Channel.Title != "Blossoms Urdu" {
			t.Errorf("expected channel title overlay, got %q", cfg.Channel.Title)
		}
		if cfg.Channel.SourceID != "mit_blossoms" {
			t.Errorf("expected channel source id to stay default, got %q", cfg.Channel.SourceID)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{}).ApplyTo(cfg)
		if cfg.BaseURL != DefaultBaseURL || cfg.Timeout != DefaultTimeout {
			t.Errorf("defaults changed: %+v", cfg)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("languages: [English]"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGConfigDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected XDG config dir to end with %s, got %q", AppName, dir)
	}
	if dir := XDGCacheDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected XDG cache dir to end with %s, got %q", AppName, dir)
	}
}
