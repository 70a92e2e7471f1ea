package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/blossomchef/internal/lang"
)

// MarkdownWriter outputs summaries as a Markdown page.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(s *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, s)
	w.writeContent(md, s)
	w.writeLanguages(md, s)
	w.writeBuild(md, s)
	w.writeViolations(md, s)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *Summary) {
	md.H1(s.Title)
	md.PlainText("")

	languages := "-"
	if len(s.Languages) > 0 {
		languages = strings.Join(s.Languages, ", ")
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source ID", "`" + s.SourceID + "`"},
			{"Source Domain", s.SourceDomain},
			{"Generated", s.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Languages", languages},
			{"Pruned", strconv.FormatBool(s.Pruned)},
		},
	})
	md.PlainText("")
	w.writeAlert(md, s)
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *Summary) {
	switch {
	case !s.Valid():
		md.Cautionf("The content tree has %d structural problem(s) and must not be uploaded.", len(s.Violations))
	case s.Build != nil && s.Build.VideoMisses > 0:
		md.Warningf("%d lesson(s) have no video in a requested language.", s.Build.VideoMisses)
	case s.Pruned:
		md.Important("This is a pruned tree. Only a small subset of the site is included.")
	default:
		md.Tip("The content tree is ready for upload.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeContent(md *markdown.Markdown, s *Summary) {
	md.H2("Content")
	md.PlainText("")
	if s.Counts == nil {
		md.PlainText("No content.")
		md.PlainText("")
		return
	}
	c := s.Counts
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{"Topics", strconv.Itoa(c.Topics)},
			{"Videos", strconv.Itoa(c.Videos)},
			{"Documents", strconv.Itoa(c.Documents)},
			{"HTML5 apps", strconv.Itoa(c.Apps)},
			{"Files", strconv.Itoa(c.Files)},
			{"Max depth", strconv.Itoa(c.MaxDepth)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeLanguages(md *markdown.Markdown, s *Summary) {
	codes := s.languageCodes()
	if len(codes) == 0 {
		return
	}
	md.H2("Videos by Language")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Videos by Language"),
		piechart.WithShowData(true),
	)
	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		n := s.Counts.Languages[code]
		rows = append(rows, []string{languageName(code), "`" + code + "`", strconv.Itoa(n)})
		chart.LabelAndIntValue(languageName(code), uint64(n)) //nolint:gosec // counts are never negative
	}
	md.Table(markdown.TableSet{
		Header: []string{"Language", "Code", "Videos"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeBuild(md *markdown.Markdown, s *Summary) {
	if s.Build == nil {
		return
	}
	b := s.Build
	md.H2("Build")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Step", "Count"},
		Rows: [][]string{
			{"Topics created", strconv.Itoa(b.Topics)},
			{"Clusters created", strconv.Itoa(b.Clusters)},
			{"Lessons scraped", strconv.Itoa(b.Lessons)},
			{"Lessons reused", strconv.Itoa(b.LessonsReused)},
			{"Duplicate lessons skipped", strconv.Itoa(b.Skipped)},
			{"Videos", strconv.Itoa(b.Videos)},
			{"Video misses", strconv.Itoa(b.VideoMisses)},
			{"Documents", strconv.Itoa(b.Documents)},
			{"Resource archives", strconv.Itoa(b.Apps)},
			{"Override updates", strconv.Itoa(s.OverridesApplied)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeViolations(md *markdown.Markdown, s *Summary) {
	if s.Valid() {
		return
	}
	md.H2("Violations")
	md.PlainText("")
	md.BulletList(s.Violations...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [blossomchef](https://github.com/nao1215/blossomchef)*")
}

// languageName maps a code back to its display name when it is one of the
// supported languages.
func languageName(code string) string {
	for _, name := range lang.Supported() {
		if lang.Code(name) == code {
			return name
		}
	}
	return code
}
