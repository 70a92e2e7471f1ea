package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nao1215/blossomchef/internal/channel"
	"github.com/nao1215/blossomchef/internal/model"
	"github.com/nao1215/blossomchef/internal/override"
	"github.com/nao1215/blossomchef/internal/report"
	"github.com/nao1215/blossomchef/internal/tree"
)

// Crawler builds the raw resource tree. *crawl.Builder implements it.
type Crawler interface {
	Build(ctx context.Context, languages []string) (*model.ResourceTree, error)
}

// TreeBuilder builds the content tree. *tree.Builder implements it.
type TreeBuilder interface {
	Build(ctx context.Context, raw *model.ResourceTree, languages []string) (*model.Channel, tree.Stats, error)
}

// StepOption configures any step.
type StepOption func(*stepBase)

// WithStepLogger sets a custom logger for a step.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(b *stepBase) {
		b.logger = logger
	}
}

type stepBase struct {
	logger *slog.Logger
}

func newStepBase(opts []StepOption) stepBase {
	b := stepBase{logger: slog.Default()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// CrawlStep builds the raw resource tree and persists it.
type CrawlStep struct {
	stepBase
	crawler   Crawler
	languages []string
	path      string
}

// NewCrawlStep creates a crawl step writing to path.
func NewCrawlStep(crawler Crawler, languages []string, path string, opts ...StepOption) *CrawlStep {
	return &CrawlStep{stepBase: newStepBase(opts), crawler: crawler, languages: languages, path: path}
}

// Name returns the step name.
func (s *CrawlStep) Name() string { return "crawl" }

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, run *Run) error {
	raw, err := s.crawler.Build(ctx, s.languages)
	if err != nil {
		return fmt.Errorf("failed to crawl: %w", err)
	}
	if err := report.WriteJSONFile(s.path, raw); err != nil {
		return err
	}
	run.Raw = raw
	s.logger.Info("raw resource tree written", "path", s.path, "languages", len(raw.Children))
	return nil
}

// ScrapeStep turns the raw resource tree into the content tree and
// persists it.
type ScrapeStep struct {
	stepBase
	builder     TreeBuilder
	languages   []string
	rawPath     string
	contentPath string
}

// NewScrapeStep creates a scrape step. The raw tree is read from rawPath
// when the run does not carry one.
func NewScrapeStep(builder TreeBuilder, languages []string, rawPath, contentPath string, opts ...StepOption) *ScrapeStep {
	return &ScrapeStep{
		stepBase:    newStepBase(opts),
		builder:     builder,
		languages:   languages,
		rawPath:     rawPath,
		contentPath: contentPath,
	}
}

// Name returns the step name.
func (s *ScrapeStep) Name() string { return "scrape" }

// Do executes the scrape step.
func (s *ScrapeStep) Do(ctx context.Context, run *Run) error {
	raw := run.Raw
	if raw == nil {
		var err error
		if raw, err = LoadResourceTree(s.rawPath); err != nil {
			return err
		}
		run.Raw = raw
	}

	ch, stats, err := s.builder.Build(ctx, raw, s.languages)
	if err != nil {
		return fmt.Errorf("failed to build content tree: %w", err)
	}
	if err := report.WriteJSONFile(s.contentPath, ch); err != nil {
		return err
	}
	run.Channel = ch
	run.Stats = &stats
	s.logger.Info("content tree written",
		"path", s.contentPath,
		"lessons", stats.Lessons,
		"videos", stats.Videos,
		"video_misses", stats.VideoMisses,
	)
	return nil
}

// PatchStep applies overrides to the content tree and persists it again.
type PatchStep struct {
	stepBase
	engine      *override.Engine
	contentPath string
}

// NewPatchStep creates a patch step.
func NewPatchStep(engine *override.Engine, contentPath string, opts ...StepOption) *PatchStep {
	return &PatchStep{stepBase: newStepBase(opts), engine: engine, contentPath: contentPath}
}

// Name returns the step name.
func (s *PatchStep) Name() string { return "patch" }

// Do executes the patch step.
func (s *PatchStep) Do(_ context.Context, run *Run) error {
	ch, err := currentChannel(run, s.contentPath)
	if err != nil {
		return err
	}
	n := s.engine.ApplyChannel(ch)
	run.OverridesApplied += n
	if n == 0 {
		s.logger.Info("no overrides matched", "rules", s.engine.Len())
		return nil
	}
	if err := report.WriteJSONFile(s.contentPath, ch); err != nil {
		return err
	}
	s.logger.Info("overrides applied", "updates", n, "path", s.contentPath)
	return nil
}

// PruneStep backs up the content tree and replaces it with the pruned
// subset.
type PruneStep struct {
	stepBase
	contentPath string
	backupPath  string
}

// NewPruneStep creates a prune step.
func NewPruneStep(contentPath, backupPath string, opts ...StepOption) *PruneStep {
	return &PruneStep{stepBase: newStepBase(opts), contentPath: contentPath, backupPath: backupPath}
}

// Name returns the step name.
func (s *PruneStep) Name() string { return "prune" }

// Do executes the prune step.
func (s *PruneStep) Do(_ context.Context, run *Run) error {
	ch, err := currentChannel(run, s.contentPath)
	if err != nil {
		return err
	}
	pruned, err := tree.Prune(ch)
	if err != nil {
		return err
	}
	if err := report.WriteJSONFile(s.backupPath, ch); err != nil {
		return err
	}
	if err := report.WriteJSONFile(s.contentPath, pruned); err != nil {
		return err
	}
	run.Channel = pruned
	s.logger.Info("content tree pruned", "backup", s.backupPath, "path", s.contentPath)
	return nil
}

// ChannelStep validates the content tree and writes the channel summary.
type ChannelStep struct {
	stepBase
	contentPath string
	token       string
	languages   []string
	pruned      bool
	writer      report.Writer
}

// NewChannelStep creates a channel step writing the summary to writer.
func NewChannelStep(contentPath string, writer report.Writer, opts ...ChannelStepOption) *ChannelStep {
	s := &ChannelStep{stepBase: newStepBase(nil), contentPath: contentPath, writer: writer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChannelStepOption configures a ChannelStep.
type ChannelStepOption func(*ChannelStep)

// WithToken sets the content server token.
func WithToken(token string) ChannelStepOption {
	return func(s *ChannelStep) {
		s.token = token
	}
}

// WithLanguages records the requested languages in the summary.
func WithLanguages(languages []string) ChannelStepOption {
	return func(s *ChannelStep) {
		s.languages = languages
	}
}

// WithPruned marks the summary as describing a pruned tree.
func WithPruned(pruned bool) ChannelStepOption {
	return func(s *ChannelStep) {
		s.pruned = pruned
	}
}

// WithChannelLogger sets a custom logger for the channel step.
func WithChannelLogger(logger *slog.Logger) ChannelStepOption {
	return func(s *ChannelStep) {
		s.logger = logger
	}
}

// Name returns the step name.
func (s *ChannelStep) Name() string { return "channel" }

// Do executes the channel step. The summary is written even when the tree
// is invalid.
func (s *ChannelStep) Do(_ context.Context, run *Run) error {
	ch, err := currentChannel(run, s.contentPath)
	if err != nil {
		return err
	}
	summary, err := report.NewSummary(ch)
	if err != nil {
		return err
	}
	summary.Languages = s.languages
	summary.Pruned = s.pruned
	summary.Build = run.Stats
	summary.OverridesApplied = run.OverridesApplied
	run.Summary = summary

	if _, err := s.writer.Write(summary); err != nil {
		return fmt.Errorf("failed to write channel summary: %w", err)
	}

	if !summary.Valid() {
		return fmt.Errorf("%w: %s", channel.ErrInvalidChannel, strings.Join(summary.Violations, "; "))
	}
	if s.token == "" {
		s.logger.Warn("no content server token, the channel is validated but cannot be uploaded")
	} else {
		s.logger.Info("channel ready for upload", "token", s.token, "videos", summary.Counts.Videos)
	}
	return nil
}

// currentChannel returns the run's content tree, loading it from path when
// no earlier step built one.
func currentChannel(run *Run, path string) (*model.Channel, error) {
	if run.Channel != nil {
		return run.Channel, nil
	}
	ch, err := LoadChannel(path)
	if err != nil {
		return nil, err
	}
	run.Channel = ch
	return ch, nil
}

// LoadResourceTree reads a raw resource tree written by the crawl step.
func LoadResourceTree(path string) (*model.ResourceTree, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the configured data directory
	if err != nil {
		return nil, fmt.Errorf("failed to open raw resource tree (run the crawl stage first): %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only
	return model.DecodeResourceTree(f)
}

// LoadChannel reads a content tree written by the scrape step.
func LoadChannel(path string) (*model.Channel, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the configured data directory
	if err != nil {
		return nil, fmt.Errorf("failed to open content tree (run the scrape stage first): %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only
	return model.DecodeChannel(f)
}
