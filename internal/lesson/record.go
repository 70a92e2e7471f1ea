package lesson

import (
	"context"
	"strings"

	"github.com/nao1215/blossomchef/internal/naming"
	"github.com/nao1215/blossomchef/internal/resolver"
)

// Doc is a downloadable document linked from a lesson tab.
type Doc struct {
	FileName string
	FileURL  string
	Title    string
}

// VideoFunc resolves the video variant of a lesson for one language.
type VideoFunc func(ctx context.Context, language string) (resolver.Candidate, bool, error)

// Record is the normalized content of one lesson page.
type Record struct {
	ID           naming.LessonID
	URL          string
	Title        string
	Summary      string
	Authors      []string
	ThumbnailURL string
	Transcripts  []Doc
	TeacherDocs  []Doc

	// ResourcesArchive is the path of the zipped "Additional Resources"
	// tab, or empty when the tab has no content.
	ResourcesArchive string

	// Videos resolves video variants. Records built by an Extractor look
	// the variants up lazily and remember them across languages.
	Videos VideoFunc
}

// SourceID returns the lesson's identity marker ("node-N").
func (r *Record) SourceID() string {
	return naming.LessonSourceID(r.ID)
}

// Author returns the teacher names joined the way content nodes credit them.
func (r *Record) Author() string {
	return strings.Join(r.Authors, ",")
}

// Slug returns the shortened lesson title used in document titles.
func (r *Record) Slug() string {
	return naming.Slug(r.Title)
}

// VideoFor returns the best video variant for language. The second result
// is false when the lesson has no video for language.
func (r *Record) VideoFor(ctx context.Context, language string) (resolver.Candidate, bool, error) {
	if r.Videos == nil {
		return resolver.Candidate{}, false, nil
	}
	return r.Videos(ctx, language)
}
