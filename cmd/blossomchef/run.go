package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/blossomchef/internal/archive"
	"github.com/nao1215/blossomchef/internal/config"
	"github.com/nao1215/blossomchef/internal/crawl"
	"github.com/nao1215/blossomchef/internal/fetch"
	"github.com/nao1215/blossomchef/internal/lang"
	"github.com/nao1215/blossomchef/internal/lesson"
	"github.com/nao1215/blossomchef/internal/log"
	"github.com/nao1215/blossomchef/internal/override"
	"github.com/nao1215/blossomchef/internal/pipeline"
	"github.com/nao1215/blossomchef/internal/report"
	"github.com/nao1215/blossomchef/internal/tree"
	"github.com/nao1215/blossomchef/internal/webcache"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the import pipeline",
		Long: `Run executes the selected stages of the import pipeline.

Examples:
  # Crawl, scrape and validate every supported language
  blossomchef run

  # Only English and Arabic
  blossomchef run --lang English --lang Arabic

  # Rebuild the content tree from the last crawl, then validate a pruned tree
  blossomchef run --stage scrape --stage channel --pruned

  # Apply corrections to the scraped tree
  blossomchef run --stage scrape --overrides overrides.json

The content server token is read from --token or the
CONTENT_CURATION_TOKEN environment variable.`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	cmd.Flags().StringSliceP("lang", "l", nil,
		"Languages to import (repeatable, default: all supported)")
	cmd.Flags().StringSliceP("stage", "s", []string{string(config.StageAll)},
		"Stages to run: crawl, scrape, channel, all")
	cmd.Flags().Bool("pruned", false,
		"Truncate the content tree to a small subset before the channel stage")
	cmd.Flags().String("overrides", "",
		"JSON file of content tree corrections applied after scraping")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .blossomchef in current, config or home directory)")
	cmd.Flags().StringP("data-dir", "d", config.DefaultDataDir,
		"Directory for the tree artifacts and resource archives")
	cmd.Flags().String("cache-dir", config.XDGCacheDir(),
		"Directory of the HTTP response cache")
	cmd.Flags().Bool("no-cache", false,
		"Disable the HTTP response cache")
	cmd.Flags().Duration("cache-max-age", 0,
		"Reuse responses from hosts other than the forever hosts for this long")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().Duration("crawl-delay", config.DefaultCrawlDelay,
		"Minimum interval between network requests")
	cmd.Flags().String("token", "",
		"Content server token (default: $"+config.TokenEnv+")")
	cmd.Flags().StringP("output", "o", "",
		"Write the Markdown channel summary to this path (default: <data-dir>/channel_summary.md)")
	cmd.Flags().Bool("log-json", false,
		"Write logs as JSON")

	return cmd
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.New(cmd.ErrOrStderr(), log.Options{Verbose: cfg.Verbose, JSON: cfg.LogJSON})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runChef(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig layers defaults, the config file and explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.ApplyTo(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("lang") {
		if cfg.Languages, err = flags.GetStringSlice("lang"); err != nil {
			return nil, err
		}
	}
	cfg.Languages = lang.NormalizeAll(cfg.Languages)

	stages, err := flags.GetStringSlice("stage")
	if err != nil {
		return nil, err
	}
	if cfg.Stages, err = config.ParseStages(stages); err != nil {
		return nil, err
	}

	if cfg.Pruned, err = flags.GetBool("pruned"); err != nil {
		return nil, err
	}
	if flags.Changed("overrides") {
		if cfg.OverridesFile, err = flags.GetString("overrides"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("data-dir") {
		if cfg.DataDir, err = flags.GetString("data-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cache-dir") {
		if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return nil, err
		}
	}
	if noCache, err := flags.GetBool("no-cache"); err != nil {
		return nil, err
	} else if noCache {
		cfg.CacheDir = ""
	}
	if flags.Changed("cache-max-age") {
		if cfg.CacheMaxAge, err = flags.GetDuration("cache-max-age"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("crawl-delay") {
		if cfg.CrawlDelay, err = flags.GetDuration("crawl-delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		if cfg.ReportFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}

	if cfg.Token, err = flags.GetString("token"); err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv(config.TokenEnv)
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runChef wires the components for cfg and executes the selected stages.
func runChef(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	start := time.Now()
	logger.Info("starting chef",
		"stages", cfg.Stages,
		"languages", cfg.Languages,
		"pruned", cfg.Pruned,
		"data_dir", cfg.DataDir,
	)

	var cache *webcache.Cache
	if cfg.CacheDir != "" && needsNetwork(cfg.Stages) {
		var err error
		if cache, err = webcache.Open(cfg.CacheDir, webcache.DefaultOptions()); err != nil {
			return fmt.Errorf("failed to open response cache: %w", err)
		}
		defer cache.Close() //nolint:errcheck // best effort on exit
		logger.Info("response cache opened", "path", cache.Path())
	}

	client := fetch.New(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		fetch.WithCache(cache),
		fetch.WithForeverHosts(cfg.ForeverHosts),
		fetch.WithMaxAge(cfg.CacheMaxAge),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithDelay(cfg.CrawlDelay),
		fetch.WithLogger(logger),
	)

	summary := &lazyFile{path: cfg.SummaryPath()}
	defer summary.Close() //nolint:errcheck // closed explicitly below on success

	p, err := newPipeline(cfg, client, report.NewMultiWriter(
		report.NewSimpleWriter(out),
		report.NewMarkdownWriter(summary),
	), logger)
	if err != nil {
		return err
	}

	run := &pipeline.Run{}
	err = p.Execute(ctx, run)

	st := client.Stats()
	logger.Info("chef finished",
		"steps", run.Performed,
		"requests", st.Requests,
		"cache_hits", st.CacheHits,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if err != nil {
		return err
	}
	if err := summary.Close(); err != nil {
		return fmt.Errorf("failed to close channel summary: %w", err)
	}
	return nil
}

// newPipeline builds the steps for the configured stages.
func newPipeline(cfg *config.Config, client *fetch.Client, summary report.Writer, logger *slog.Logger) (*pipeline.Pipeline, error) {
	stepLogger := pipeline.WithStepLogger(logger)
	p := pipeline.New(pipeline.WithLogger(logger))

	patched := false
	addPatchStep := func() error {
		if cfg.OverridesFile == "" || patched {
			return nil
		}
		engine, err := override.LoadFile(cfg.OverridesFile)
		if err != nil {
			return err
		}
		p.AddStep(pipeline.NewPatchStep(engine, cfg.ContentTreePath(), stepLogger))
		patched = true
		return nil
	}

	for _, stage := range cfg.Stages {
		switch stage {
		case config.StageCrawl:
			crawler := crawl.NewBuilder(client,
				crawl.WithBaseURL(cfg.BaseURL),
				crawl.WithLanguagesPath(cfg.LanguagesPath),
				crawl.WithRoot(crawl.Root(cfg.Channel)),
				crawl.WithLogger(logger),
			)
			p.AddStep(pipeline.NewCrawlStep(crawler, cfg.Languages, cfg.RawTreePath(), stepLogger))

		case config.StageScrape:
			extractor := lesson.NewExtractor(client,
				lesson.WithBaseURL(cfg.BaseURL),
				lesson.WithArchiveWriter(archive.NewWriter(cfg.ArchiveDir())),
				lesson.WithLogger(logger),
			)
			builder := tree.NewBuilder(extractor, tree.WithLogger(logger))
			p.AddStep(pipeline.NewScrapeStep(builder, cfg.Languages, cfg.RawTreePath(), cfg.ContentTreePath(), stepLogger))

			if err := addPatchStep(); err != nil {
				return nil, err
			}

		case config.StageChannel:
			// A channel-only run still patches the persisted tree.
			if err := addPatchStep(); err != nil {
				return nil, err
			}
			if cfg.Pruned {
				p.AddStep(pipeline.NewPruneStep(cfg.ContentTreePath(), cfg.FullTreeBackupPath(), stepLogger))
			}
			p.AddStep(pipeline.NewChannelStep(cfg.ContentTreePath(), summary,
				pipeline.WithToken(cfg.Token),
				pipeline.WithLanguages(cfg.Languages),
				pipeline.WithPruned(cfg.Pruned),
				pipeline.WithChannelLogger(logger),
			))
		}
	}
	return p, nil
}

func needsNetwork(stages []config.Stage) bool {
	for _, s := range stages {
		if s == config.StageCrawl || s == config.StageScrape {
			return true
		}
	}
	return false
}

// lazyFile creates its file on the first write, so runs without a channel
// stage leave no empty summary behind.
type lazyFile struct {
	path string
	f    *os.File
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if l.f == nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
			return 0, fmt.Errorf("failed to create directory for channel summary: %w", err)
		}
		f, err := os.Create(l.path) //nolint:gosec // path comes from the configuration
		if err != nil {
			return 0, fmt.Errorf("failed to create channel summary: %w", err)
		}
		l.f = f
	}
	return l.f.Write(p)
}

// Close closes the file if it was created. It is safe to call twice.
func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}
