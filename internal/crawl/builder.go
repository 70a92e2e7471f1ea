package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nao1215/blossomchef/internal/htmldoc"
	"github.com/nao1215/blossomchef/internal/lang"
	"github.com/nao1215/blossomchef/internal/model"
)

// Fetcher loads HTML documents. *fetch.Client implements it.
type Fetcher interface {
	Document(ctx context.Context, rawURL string) (htmldoc.Element, error)
}

// Root describes the root object of the raw resource tree.
type Root struct {
	SourceDomain string
	SourceID     string
	Title        string
	Thumbnail    string
}

// Builder crawls the site into a raw resource tree.
type Builder struct {
	fetcher       Fetcher
	baseURL       string
	languagesPath string
	root          Root
	logger        *slog.Logger

	clusters map[string][]string
}

// Option configures a Builder.
type Option func(*Builder)

// WithBaseURL sets the site root.
func WithBaseURL(base string) Option {
	return func(b *Builder) {
		b.baseURL = strings.TrimRight(base, "/")
	}
}

// WithLanguagesPath sets the path of the by-language index page.
func WithLanguagesPath(p string) Option {
	return func(b *Builder) {
		b.languagesPath = p
	}
}

// WithRoot sets the root object metadata.
func WithRoot(r Root) Option {
	return func(b *Builder) {
		b.root = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder.
func NewBuilder(fetcher Fetcher, opts ...Option) *Builder {
	b := &Builder{
		fetcher:       fetcher,
		baseURL:       "https://blossoms.mit.edu",
		languagesPath: "/videos/by_language",
		root: Root{
			SourceDomain: "blossoms.mit.edu",
			SourceID:     "mit_blossoms",
			Title:        "MIT Blossoms",
		},
		logger:   slog.Default(),
		clusters: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Languages returns the languages offered by the index page in page order.
func (b *Builder) Languages(ctx context.Context) ([]LanguageLink, error) {
	doc, err := b.fetcher.Document(ctx, b.baseURL+b.languagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load language index: %w", err)
	}
	return parseLanguages(doc, b.baseURL), nil
}

// ListLessons returns the lessons of one language listing page.
func (b *Builder) ListLessons(ctx context.Context, listingURL string) ([]Listing, error) {
	doc, err := b.fetcher.Document(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	return parseListing(doc, b.baseURL), nil
}

// Clusters returns the cluster names shown on a lesson page. Results are
// remembered for the lifetime of the Builder.
func (b *Builder) Clusters(ctx context.Context, lessonURL string) ([]string, error) {
	if names, ok := b.clusters[lessonURL]; ok {
		return names, nil
	}
	doc, err := b.fetcher.Document(ctx, lessonURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson page: %w", err)
	}
	names := parseClusters(doc)
	b.clusters[lessonURL] = names
	return names, nil
}

// Build crawls the selected languages and returns the raw resource tree.
// An empty selection crawls every language the site offers. Selected
// languages the site does not offer are logged and skipped.
func (b *Builder) Build(ctx context.Context, selected []string) (*model.ResourceTree, error) {
	links, err := b.Languages(ctx)
	if err != nil {
		return nil, err
	}
	links = selectLanguages(links, selected, b.logger)

	tree := &model.ResourceTree{
		SourceDomain: b.root.SourceDomain,
		SourceID:     b.root.SourceID,
		Title:        b.root.Title,
		Thumbnail:    b.root.Thumbnail,
		Children:     []model.RawNode{},
	}

	for _, link := range links {
		b.logger.Info("crawling language", "language", link.Name, "url", link.URL)

		lessons, err := b.ListLessons(ctx, link.URL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", link.Name, err)
		}
		langNode := &model.LanguageResource{Name: link.Name, URL: link.URL}
		for _, group := range GroupByTopic(lessons) {
			topic := &model.TopicResource{Title: group.Topic}
			for _, l := range group.Lessons {
				topic.Children = append(topic.Children, &model.LessonRef{Title: l.Title, URL: l.URL})
			}
			langNode.Children = append(langNode.Children, topic)
		}
		tree.Children = append(tree.Children, langNode)
	}

	for _, n := range tree.Children {
		langNode, ok := n.(*model.LanguageResource)
		if !ok {
			continue
		}
		for _, t := range langNode.Children {
			topic, ok := t.(*model.TopicResource)
			if !ok {
				continue
			}
			b.logger.Debug("resolving clusters", "language", langNode.Name, "topic", topic.Title)
			err := AddClusterMembership(topic, func(ref *model.LessonRef) ([]string, error) {
				return b.Clusters(ctx, ref.URL)
			})
			if err != nil {
				return nil, fmt.Errorf("topic %q: %w", topic.Title, err)
			}
		}
	}
	return tree, nil
}

func selectLanguages(links []LanguageLink, selected []string, logger *slog.Logger) []LanguageLink {
	if len(selected) == 0 {
		return links
	}
	want := make(map[string]bool, len(selected))
	for _, s := range lang.NormalizeAll(selected) {
		want[s] = true
	}

	var out []LanguageLink
	seen := make(map[string]bool)
	for _, l := range links {
		name := lang.Normalize(l.Name)
		if want[name] {
			out = append(out, l)
			seen[name] = true
		}
	}
	for _, s := range lang.NormalizeAll(selected) {
		if !seen[s] {
			logger.Warn("selected language not offered by the site", "language", s)
		}
	}
	return out
}

// Raw child classes used to order topic children.
const (
	classCluster = iota
	classLesson
	classOther
)

func classify(n model.RawNode) int {
	switch n.(type) {
	case *model.ClusterResource:
		return classCluster
	case *model.LessonRef:
		return classLesson
	default:
		return classOther
	}
}

// AddClusterMembership rewrites topic's children using clustersOf. A lesson
// with clusters is moved under one ClusterResource per cluster name (the
// same *LessonRef is shared); a lesson without clusters stays a direct
// child. Clusters are created on first sight and reused by title. The
// result is stably ordered clusters first, then lessons, then anything else.
func AddClusterMembership(topic *model.TopicResource, clustersOf func(*model.LessonRef) ([]string, error)) error {
	old := topic.Children
	topic.Children = make([]model.RawNode, 0, len(old))
	byTitle := make(map[string]*model.ClusterResource)

	for _, child := range old {
		ref, ok := child.(*model.LessonRef)
		if !ok {
			if c, isCluster := child.(*model.ClusterResource); isCluster {
				byTitle[c.Title] = c
			}
			topic.Children = append(topic.Children, child)
			continue
		}

		names, err := clustersOf(ref)
		if err != nil {
			return fmt.Errorf("lesson %q: %w", ref.Title, err)
		}
		if len(names) == 0 {
			topic.Children = append(topic.Children, ref)
			continue
		}
		for _, name := range names {
			cluster, ok := byTitle[name]
			if !ok {
				cluster = &model.ClusterResource{Title: name}
				byTitle[name] = cluster
				topic.Children = append(topic.Children, cluster)
			}
			cluster.Children = append(cluster.Children, ref)
		}
	}

	sort.SliceStable(topic.Children, func(i, j int) bool {
		return classify(topic.Children[i]) < classify(topic.Children[j])
	})
	return nil
}
