package tree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/blossomchef/internal/lang"
	"github.com/nao1215/blossomchef/internal/lesson"
	"github.com/nao1215/blossomchef/internal/model"
	"github.com/nao1215/blossomchef/internal/naming"
)

// VideoCRF is the constant rate factor requested for every video.
const VideoCRF = 24

// Source extracts lessons. *lesson.Extractor implements it.
type Source interface {
	Fetch(ctx context.Context, title, lessonURL string) (*lesson.Record, error)
}

// Stats counts what a build produced.
type Stats struct {
	Topics        int
	Clusters      int
	Lessons       int
	LessonsReused int
	Skipped       int
	Videos        int
	VideoMisses   int
	Documents     int
	Apps          int
}

// Builder turns a raw resource tree into a content tree.
type Builder struct {
	source Source
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder.
func NewBuilder(source Source, opts ...Option) *Builder {
	b := &Builder{
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// container is one parent under construction: its children slice, its
// children indexed by title and by source_id, and the number of leading
// cluster folders.
type container struct {
	children *[]model.Node
	byTitle  map[string]model.Node
	ids      map[string]bool
	clusters int
}

func newContainer(children *[]model.Node) *container {
	c := &container{
		children: children,
		byTitle:  make(map[string]model.Node),
		ids:      make(map[string]bool),
	}
	for _, n := range *children {
		c.index(n)
	}
	return c
}

func (c *container) index(n model.Node) {
	if _, ok := c.byTitle[n.Meta().Title]; !ok {
		c.byTitle[n.Meta().Title] = n
	}
	c.ids[n.Meta().SourceID] = true
}

// has reports whether a child with sourceID already exists.
func (c *container) has(sourceID string) bool {
	return c.ids[sourceID]
}

func (c *container) lookup(title string) (model.Node, bool) {
	n, ok := c.byTitle[title]
	return n, ok
}

func (c *container) add(n model.Node, cluster bool) {
	c.index(n)
	if !cluster {
		*c.children = append(*c.children, n)
		return
	}
	s := *c.children
	s = append(s, nil)
	copy(s[c.clusters+1:], s[c.clusters:])
	s[c.clusters] = n
	*c.children = s
	c.clusters++
}

// build holds the state of one Build call.
type build struct {
	*Builder
	languages  []string
	containers map[*model.Topic]*container
	records    map[string]*lesson.Record
	stats      Stats
}

// Build walks raw and returns the content tree together with build
// statistics. languages selects the video variants emitted for each lesson.
func (b *Builder) Build(ctx context.Context, raw *model.ResourceTree, languages []string) (*model.Channel, Stats, error) {
	ch := &model.Channel{
		SourceDomain: raw.SourceDomain,
		SourceID:     raw.SourceID,
		Title:        raw.Title,
		Thumbnail:    raw.Thumbnail,
		Children:     []model.Node{},
	}
	st := &build{
		Builder:    b,
		languages:  languages,
		containers: make(map[*model.Topic]*container),
		records:    make(map[string]*lesson.Record),
	}
	if err := st.walk(ctx, newContainer(&ch.Children), raw.Children); err != nil {
		return nil, st.stats, err
	}
	return ch, st.stats, nil
}

func (st *build) containerOf(t *model.Topic) *container {
	c, ok := st.containers[t]
	if !ok {
		c = newContainer(&t.Children)
		st.containers[t] = c
	}
	return c
}

func (st *build) walk(ctx context.Context, parent *container, nodes []model.RawNode) error {
	for _, n := range nodes {
		switch v := n.(type) {
		case *model.LanguageResource:
			if err := st.walk(ctx, parent, v.Children); err != nil {
				return err
			}

		case *model.TopicResource:
			t := st.topicChild(parent, v.Title, false)
			if err := st.walk(ctx, st.containerOf(t), v.Children); err != nil {
				return err
			}

		case *model.ClusterResource:
			t := st.topicChild(parent, v.Title, true)
			if err := st.walk(ctx, st.containerOf(t), v.Children); err != nil {
				return err
			}

		case *model.LessonRef:
			if err := st.lessonChild(ctx, parent, v); err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: %T", ErrUnexpectedNode, n)
		}
	}
	return nil
}

// topicChild returns the Topic titled title under parent, creating it when
// absent.
func (st *build) topicChild(parent *container, title string, cluster bool) *model.Topic {
	if existing, ok := parent.lookup(title); ok {
		if t, isTopic := existing.(*model.Topic); isTopic {
			st.logger.Debug("found existing node", "title", title)
			return t
		}
	}

	t := &model.Topic{
		Metadata: model.Metadata{
			SourceID:    naming.TopicID(title),
			Title:       title,
			Author:      naming.Author,
			Description: naming.TopicDescription(title),
		},
		Children: []model.Node{},
	}
	if cluster {
		t.SourceID = naming.ClusterID(title)
		t.Description = naming.ClusterDescription(title)
		st.stats.Clusters++
	} else {
		st.stats.Topics++
	}
	parent.add(t, cluster)
	st.logger.Debug("created node", "title", title, "cluster", cluster)
	return t
}

func (st *build) lessonChild(ctx context.Context, parent *container, ref *model.LessonRef) error {
	if _, ok := parent.lookup(ref.Title); ok {
		st.stats.Skipped++
		st.logger.Debug("lesson already present", "title", ref.Title)
		return nil
	}

	rec, reused := st.records[ref.URL]
	if !reused {
		var err error
		rec, err = st.source.Fetch(ctx, ref.Title, ref.URL)
		if err != nil {
			return err
		}
		st.records[ref.URL] = rec
	}
	if parent.has(rec.SourceID()) {
		st.stats.Skipped++
		st.logger.Debug("lesson already present under another title", "title", ref.Title, "source_id", rec.SourceID())
		return nil
	}
	if reused {
		st.stats.LessonsReused++
	}

	folder, err := st.lessonFolder(ctx, rec)
	if err != nil {
		return err
	}
	folder.Title = ref.Title
	parent.add(folder, false)
	st.stats.Lessons++
	st.logger.Debug("added lesson", "title", ref.Title, "source_id", folder.SourceID)
	return nil
}

func (st *build) lessonFolder(ctx context.Context, rec *lesson.Record) (*model.Topic, error) {
	author := rec.Author()
	folder := &model.Topic{
		Metadata: model.Metadata{
			SourceID:    rec.SourceID(),
			Title:       rec.Title,
			Author:      author,
			Description: rec.Summary,
			Thumbnail:   rec.ThumbnailURL,
		},
		Children: []model.Node{},
	}
	seen := make(map[string]bool)
	addUnique := func(n model.Node) {
		if seen[n.Meta().SourceID] {
			return
		}
		seen[n.Meta().SourceID] = true
		folder.Children = append(folder.Children, n)
	}

	for _, language := range st.languages {
		c, ok, err := rec.VideoFor(ctx, language)
		if err != nil {
			return nil, fmt.Errorf("lesson %s: %w", rec.URL, err)
		}
		if !ok {
			st.stats.VideoMisses++
			st.logger.Info("skipping video", "lesson", rec.URL, "language", language)
			continue
		}
		addUnique(&model.Video{
			Metadata: model.Metadata{
				SourceID:    naming.VideoID(rec.ID, c.Label),
				Title:       naming.VideoTitle(c.Label, rec.Title),
				Author:      author,
				Description: rec.Summary,
				Thumbnail:   rec.ThumbnailURL,
			},
			Language:        lang.Code(language),
			DeriveThumbnail: true,
			Files: []model.File{&model.VideoFile{
				Path:           c.URL,
				FFmpegSettings: map[string]int{"crf": VideoCRF},
			}},
		})
	}
	st.stats.Videos += countKind(folder.Children, model.KindVideo)

	if len(rec.Transcripts) > 0 {
		folder.Children = append(folder.Children, st.docFolder(rec, rec.Transcripts, model.Metadata{
			SourceID: naming.TranscriptsFolderID(rec.URL),
			Title:    naming.TranscriptsTitle,
			Author:   naming.Author,
		}, naming.TranscriptID, author))
	}

	if rec.ResourcesArchive != "" {
		folder.Children = append(folder.Children, &model.HTML5App{
			Metadata: model.Metadata{
				SourceID:    naming.AdditionalResourcesID(rec.ID),
				Title:       naming.AdditionalResourcesTitle(rec.Title),
				Description: naming.AdditionalResourcesDescription,
			},
			Files: []model.File{&model.HTMLZipFile{Path: rec.ResourcesArchive}},
		})
		st.stats.Apps++
	}

	if len(rec.TeacherDocs) > 0 {
		folder.Children = append(folder.Children, st.docFolder(rec, rec.TeacherDocs, model.Metadata{
			SourceID:    naming.TeachersFolderID(rec.URL),
			Title:       naming.TeachersTitle,
			Author:      naming.Author,
			Description: naming.TeachersDescription,
		}, naming.TeachersDocID, ""))
	}
	return folder, nil
}

func (st *build) docFolder(rec *lesson.Record, docs []lesson.Doc, meta model.Metadata, id func(naming.LessonID, string) string, author string) *model.Topic {
	folder := &model.Topic{Metadata: meta, Children: []model.Node{}}
	seen := make(map[string]bool)
	for _, d := range docs {
		sourceID := id(rec.ID, d.FileName)
		if seen[sourceID] {
			continue
		}
		seen[sourceID] = true
		folder.Children = append(folder.Children, &model.Document{
			Metadata: model.Metadata{
				SourceID:    sourceID,
				Title:       naming.DocumentTitle(rec.Title, d.Title),
				Author:      author,
				Description: d.Title,
			},
			Files: []model.File{&model.DocumentFile{Path: d.FileURL}},
		})
		st.stats.Documents++
	}
	return folder
}

func countKind(nodes []model.Node, kind model.Kind) int {
	n := 0
	for _, node := range nodes {
		if node.Kind() == kind {
			n++
		}
	}
	return n
}
