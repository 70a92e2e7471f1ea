package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/blossomchef/internal/model"
)

// SimpleWriter outputs plain text for terminal display.
type SimpleWriter struct {
	baseWriter

	// maxDepth is the number of levels WriteTree prints. Zero means all.
	maxDepth int

	// verbose adds source ids and file counts to the outline.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithMaxDepth limits the outline printed by WriteTree.
func WithMaxDepth(depth int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.maxDepth = depth
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(s *Summary) (int, error) {
	var sb strings.Builder

	rule(&sb, "=")
	fmt.Fprintf(&sb, "%s (%s)\n", s.Title, s.SourceID)
	rule(&sb, "=")
	sb.WriteString("\n")
	if len(s.Languages) > 0 {
		fmt.Fprintf(&sb, "Languages: %s\n", strings.Join(s.Languages, ", "))
	}
	if s.Pruned {
		sb.WriteString("Pruned:    yes\n")
	}

	if c := s.Counts; c != nil {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  Topics:     %d\n", c.Topics)
		fmt.Fprintf(&sb, "  Videos:     %d\n", c.Videos)
		fmt.Fprintf(&sb, "  Documents:  %d\n", c.Documents)
		fmt.Fprintf(&sb, "  HTML5 apps: %d\n", c.Apps)
		fmt.Fprintf(&sb, "  Files:      %d\n", c.Files)
		for _, code := range s.languageCodes() {
			fmt.Fprintf(&sb, "  Videos [%s]: %d\n", code, c.Languages[code])
		}
	}

	if b := s.Build; b != nil {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  Lessons scraped: %d (reused %d, skipped %d)\n", b.Lessons, b.LessonsReused, b.Skipped)
		if b.VideoMisses > 0 {
			fmt.Fprintf(&sb, "  Video misses:    %d\n", b.VideoMisses)
		}
	}
	if s.OverridesApplied > 0 {
		fmt.Fprintf(&sb, "  Overrides:       %d\n", s.OverridesApplied)
	}

	sb.WriteString("\n")
	if s.Valid() {
		sb.WriteString("Status: OK\n")
	} else {
		fmt.Fprintf(&sb, "Status: %d violation(s)\n", len(s.Violations))
		for _, v := range s.Violations {
			fmt.Fprintf(&sb, "  [!] %s\n", v)
		}
	}
	rule(&sb, "=")

	return w.output.Write([]byte(sb.String()))
}

// WriteTree outputs an indented outline of ch.
func (w *SimpleWriter) WriteTree(ch *model.Channel) (int, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", ch.Title)
	err := model.Walk(ch.Children, func(n model.Node, depth int) error {
		if w.maxDepth > 0 && depth >= w.maxDepth {
			return nil
		}
		meta := n.Meta()
		sb.WriteString(strings.Repeat("  ", depth+1))
		fmt.Fprintf(&sb, "[%s] %s", n.Kind(), meta.Title)
		if v, ok := n.(*model.Video); ok {
			fmt.Fprintf(&sb, " (%s)", v.Language)
		}
		if w.verbose {
			fmt.Fprintf(&sb, "  id=%s files=%d", meta.SourceID, len(model.FilesOf(n)))
		}
		sb.WriteString("\n")
		return nil
	})
	if err != nil {
		return 0, err
	}
	return w.output.Write([]byte(sb.String()))
}

func rule(sb *strings.Builder, ch string) {
	sb.WriteString(strings.Repeat(ch, 70))
	sb.WriteString("\n")
}
