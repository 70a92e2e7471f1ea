package report

import (
	"fmt"
	"strings"

	"github.com/nao1215/blossomchef/internal/model"
)

// LanguageCount tallies one language section of a raw resource tree.
type LanguageCount struct {
	Name     string `json:"name"`
	Topics   int    `json:"topics"`
	Clusters int    `json:"clusters"`
	// Lessons counts lesson references, including ones shared by clusters.
	Lessons int `json:"lessons"`
}

// RawCounts describes a raw resource tree.
type RawCounts struct {
	Languages []LanguageCount `json:"languages"`
	// UniqueLessons counts distinct lesson URLs across all languages.
	UniqueLessons int `json:"unique_lessons"`
}

// CountRaw tallies raw per language section. Nodes outside a language
// section are ignored.
func CountRaw(raw *model.ResourceTree) RawCounts {
	var out RawCounts
	urls := make(map[string]bool)
	for _, n := range raw.Children {
		lr, ok := n.(*model.LanguageResource)
		if !ok {
			continue
		}
		lc := LanguageCount{Name: lr.Name}
		countRaw(lr.Children, &lc, urls)
		out.Languages = append(out.Languages, lc)
	}
	out.UniqueLessons = len(urls)
	return out
}

func countRaw(nodes []model.RawNode, lc *LanguageCount, urls map[string]bool) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *model.TopicResource:
			lc.Topics++
			countRaw(v.Children, lc, urls)
		case *model.ClusterResource:
			lc.Clusters++
			countRaw(v.Children, lc, urls)
		case *model.LessonRef:
			lc.Lessons++
			urls[v.URL] = true
		}
	}
}

// WriteRaw outputs the counts of a raw resource tree.
func (w *SimpleWriter) WriteRaw(raw *model.ResourceTree) (int, error) {
	counts := CountRaw(raw)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (raw resource tree)\n", raw.Title)
	rule(&sb, "-")
	for _, lc := range counts.Languages {
		fmt.Fprintf(&sb, "  %-12s topics=%d clusters=%d lessons=%d\n", lc.Name, lc.Topics, lc.Clusters, lc.Lessons)
	}
	rule(&sb, "-")
	fmt.Fprintf(&sb, "  unique lessons: %d\n", counts.UniqueLessons)

	return w.output.Write([]byte(sb.String()))
}
