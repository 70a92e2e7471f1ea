package lesson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/blossomchef/internal/archive"
	"github.com/nao1215/blossomchef/internal/fetch"
	"github.com/nao1215/blossomchef/internal/htmldoc"
	"github.com/nao1215/blossomchef/internal/naming"
	"github.com/nao1215/blossomchef/internal/resolver"
)

// Selectors of the lesson page blocks.
const (
	selIdentity     = "div.node-lesson"
	selThumbnail    = "div.lesson-thumbnail-block img"
	selSummary      = "div.lesson-summary-block"
	selTeacherInfo  = "div.lesson-teacher-info"
	selTeacherNames = "strong, b"
	selTranscripts  = "div#lesson-detail-tab-transcript div.lesson-transcript-block"
	selTeacherGuide = "div#lesson-detail-tab-teacher_guide div.lesson-teacher-guide-block"
	selResources    = "div#lesson-detail-tab-resources div.lesson-resources-block"
	selPlayVideo    = "ul.lesson-playvideo-block li.lesson-playvideo-item div.lesson-playvideo-contents a"
	selPlayerFrame  = "div.video-embeddedplayer iframe"
	selMediaSource  = `div.video-player source[type="video/mp4"]`
	selDownloadRows = "div#lesson-detail-tab-download table.lesson-downloadvideo-contents tr"
	mpeg4Format     = "MPEG 4"
)

var (
	lessonIDPattern = regexp.MustCompile(`^node-(\d+)$`)
	pdfSuffix       = regexp.MustCompile(` \(PDF format\)`)
)

// Fetcher loads HTML documents. *fetch.Client implements it.
type Fetcher interface {
	Document(ctx context.Context, rawURL string) (htmldoc.Element, error)
}

// Extractor builds Records from lesson pages.
type Extractor struct {
	fetcher     Fetcher
	baseURL     string
	archives    *archive.Writer
	allowedExts map[string]bool
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBaseURL sets the site root used to resolve relative links.
func WithBaseURL(base string) Option {
	return func(e *Extractor) {
		e.baseURL = strings.TrimRight(base, "/")
	}
}

// WithArchiveWriter enables packaging of the additional resources tab.
// Without it the tab is ignored.
func WithArchiveWriter(w *archive.Writer) Option {
	return func(e *Extractor) {
		e.archives = w
	}
}

// WithAllowedExtensions sets the document extensions kept for transcripts
// and teacher guides. The default is pdf only.
func WithAllowedExtensions(exts ...string) Option {
	return func(e *Extractor) {
		e.allowedExts = make(map[string]bool, len(exts))
		for _, ext := range exts {
			e.allowedExts[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(fetcher Fetcher, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher:     fetcher,
		baseURL:     "https://blossoms.mit.edu",
		allowedExts: map[string]bool{"pdf": true},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fetch loads the lesson page at lessonURL and extracts it.
func (e *Extractor) Fetch(ctx context.Context, title, lessonURL string) (*Record, error) {
	doc, err := e.fetcher.Document(ctx, lessonURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson %q: %w", title, err)
	}
	return e.Extract(doc, title, lessonURL)
}

// Extract builds a Record from an already loaded lesson page. It fails only
// when the identity block is missing or malformed.
func (e *Extractor) Extract(doc htmldoc.Element, title, lessonURL string) (*Record, error) {
	id, err := lessonID(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", lessonURL, err)
	}

	r := &Record{
		ID:           id,
		URL:          lessonURL,
		Title:        title,
		ThumbnailURL: e.thumbnail(doc),
		Summary:      e.summary(doc, lessonURL),
		Authors:      teachers(doc),
		Transcripts:  e.documents(doc, selTranscripts, lessonURL),
		TeacherDocs:  e.documents(doc, selTeacherGuide, lessonURL),
	}
	r.Videos = (&videoLookup{extractor: e, doc: doc, lessonURL: lessonURL}).resolve
	if len(r.Authors) == 0 {
		e.logger.Warn("no teacher names found", "lesson", r.SourceID(), "url", lessonURL)
	}

	r.ResourcesArchive, err = e.resourcesArchive(doc, lessonURL)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func lessonID(doc htmldoc.Element) (naming.LessonID, error) {
	block := doc.Find(selIdentity)
	if !block.Exists() {
		return 0, ErrMissingLessonID
	}
	marker, ok := block.Attr("id")
	if !ok || marker == "" {
		return 0, ErrMissingLessonID
	}
	m := lessonIDPattern.FindStringSubmatch(strings.TrimSpace(marker))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLessonID, marker)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLessonID, marker)
	}
	return naming.LessonID(n), nil
}

func (e *Extractor) thumbnail(doc htmldoc.Element) string {
	src, ok := doc.Find(selThumbnail).Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return ""
	}
	return fetch.Resolve(e.baseURL+"/", src)
}

func (e *Extractor) summary(doc htmldoc.Element, lessonURL string) string {
	block := doc.Find(selSummary)
	if !block.Exists() {
		return ""
	}
	md, err := block.Markdown()
	if err != nil {
		e.logger.Warn("failed to convert summary", "url", lessonURL, "error", err)
		return strings.TrimSpace(block.Text())
	}
	return md
}

// teachers reads the names in the teacher info block. A single <strong>
// sometimes packs several names separated by line breaks.
func teachers(doc htmldoc.Element) []string {
	var names []string
	for _, el := range doc.Find(selTeacherInfo).FindAll(selTeacherNames) {
		for _, name := range strings.Split(el.Text(), "\n") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func (e *Extractor) documents(doc htmldoc.Element, blockSelector, lessonURL string) []Doc {
	var docs []Doc
	for _, block := range doc.FindAll(blockSelector) {
		link := block.Find("a")
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		fileName := strings.TrimSpace(link.AttrOr("title", ""))
		if fileName == "" {
			fileName = baseName(href)
		}
		if !e.allowedExts[extension(fileName)] {
			continue
		}
		docs = append(docs, Doc{
			FileName: fileName,
			FileURL:  fetch.Resolve(lessonURL, href),
			Title:    pdfSuffix.ReplaceAllString(link.Text(), ""),
		})
	}
	return docs
}

func baseName(href string) string {
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(href)
}

func extension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
}

func (e *Extractor) resourcesArchive(doc htmldoc.Element, lessonURL string) (string, error) {
	block := doc.Find(selResources)
	if !block.HasContent() {
		e.logger.Warn("no additional resources", "url", lessonURL)
		return "", nil
	}
	if e.archives == nil {
		return "", nil
	}

	page, err := htmldoc.Standalone(block.WithoutLinks())
	if err != nil {
		return "", fmt.Errorf("%s: %w", lessonURL, err)
	}
	p, err := e.archives.Write(archive.Bundle{archive.IndexFile: page})
	if err != nil {
		return "", fmt.Errorf("failed to archive additional resources of %s: %w", lessonURL, err)
	}
	return p, nil
}

// playVideoCandidates follows every entry of the play-video block to its
// player page and then to the embedded player to find the mp4 URL. Entries
// whose pages are unavailable or carry no mp4 source are dropped.
func (e *Extractor) playVideoCandidates(ctx context.Context, doc htmldoc.Element) ([]resolver.Candidate, error) {
	var cands []resolver.Candidate
	for _, link := range doc.FindAll(selPlayVideo) {
		href, ok := link.Attr("href")
		if !ok {
			continue
		}
		label := strings.TrimSpace(link.Text())
		media, err := e.mediaURL(ctx, fetch.Resolve(e.baseURL+"/", href))
		if err != nil {
			var se *fetch.StatusError
			if errors.As(err, &se) {
				e.logger.Warn("video page unavailable", "label", label, "error", err)
				continue
			}
			return nil, err
		}
		if media == "" {
			continue
		}
		cands = append(cands, resolver.Candidate{Label: label, URL: media})
	}
	return cands, nil
}

func (e *Extractor) mediaURL(ctx context.Context, playerURL string) (string, error) {
	player, err := e.fetcher.Document(ctx, playerURL)
	if err != nil {
		return "", err
	}
	embedURL, ok := player.Find(selPlayerFrame).Attr("src")
	if !ok || strings.TrimSpace(embedURL) == "" {
		return "", nil
	}
	embed, err := e.fetcher.Document(ctx, fetch.Resolve(playerURL, embedURL))
	if err != nil {
		return "", err
	}
	src, ok := embed.Find(selMediaSource).Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", nil
	}
	if strings.HasPrefix(src, "//") {
		return "http:" + src, nil
	}
	return src, nil
}

// downloadCandidates lists the MPEG 4 rows of the downloads tab.
func (e *Extractor) downloadCandidates(doc htmldoc.Element) []resolver.Candidate {
	var cands []resolver.Candidate
	for _, row := range doc.FindAll(selDownloadRows) {
		href, ok := row.Find("td.videolist-name a").Attr("href")
		if !ok {
			continue
		}
		if strings.TrimSpace(row.Find("td.videolist-format").Text()) != mpeg4Format {
			continue
		}
		cands = append(cands, resolver.Candidate{
			Label: resolver.NormalizeLabel(row.Find("td.videolist-language").Text()),
			URL:   fetch.Resolve(e.baseURL+"/", href),
		})
	}
	return cands
}
