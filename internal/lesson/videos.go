package lesson

import (
	"context"
	"log/slog"

	"github.com/nao1215/blossomchef/internal/htmldoc"
	"github.com/nao1215/blossomchef/internal/resolver"
)

// videoLookup resolves languages against one lesson page. The play-video
// candidates cost two requests each, so they are gathered once; the
// downloads tab is only consulted when they have no match for a language.
type videoLookup struct {
	extractor *Extractor
	doc       htmldoc.Element
	lessonURL string

	primary     []resolver.Candidate
	primaryDone bool
}

func (v *videoLookup) playVideo(ctx context.Context) ([]resolver.Candidate, error) {
	if !v.primaryDone {
		cands, err := v.extractor.playVideoCandidates(ctx, v.doc)
		if err != nil {
			return nil, err
		}
		v.primary = cands
		v.primaryDone = true
	}
	return v.primary, nil
}

func (v *videoLookup) resolve(ctx context.Context, language string) (resolver.Candidate, bool, error) {
	primary := func() ([]resolver.Candidate, error) {
		return v.playVideo(ctx)
	}
	fallback := func() ([]resolver.Candidate, error) {
		return v.extractor.downloadCandidates(v.doc), nil
	}

	c, ok, err := resolver.Resolve(primary, fallback, language)
	if err != nil {
		return resolver.Candidate{}, false, err
	}
	if !ok && v.extractor.logger.Enabled(ctx, slog.LevelInfo) {
		v.extractor.logger.Info("no video for language",
			"lesson", v.lessonURL,
			"language", language,
			"labels", labels(v.primary, v.extractor.downloadCandidates(v.doc)),
		)
	}
	return c, ok, nil
}

func labels(lists ...[]resolver.Candidate) []string {
	var out []string
	for _, l := range lists {
		for _, c := range l {
			out = append(out, c.Label)
		}
	}
	return out
}
