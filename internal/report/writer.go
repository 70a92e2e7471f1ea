package report

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/nao1215/blossomchef/internal/channel"
	"github.com/nao1215/blossomchef/internal/model"
	"github.com/nao1215/blossomchef/internal/tree"
)

// Summary describes a content tree and, when it was built in the same
// run, how it was built.
type Summary struct {
	Title        string    `json:"title"`
	SourceID     string    `json:"source_id"`
	SourceDomain string    `json:"source_domain"`
	GeneratedAt  time.Time `json:"generated_at"`

	// Languages are the requested languages.
	Languages []string `json:"languages,omitempty"`

	// Pruned reports whether the tree was truncated before upload.
	Pruned bool `json:"pruned"`

	Counts *channel.Counter `json:"counts"`

	// Build is nil when the tree was loaded from disk.
	Build *tree.Stats `json:"build,omitempty"`

	// OverridesApplied is the number of node updates made by overrides.
	OverridesApplied int `json:"overrides_applied"`

	// Violations are the structural problems found in the tree.
	Violations []string `json:"violations,omitempty"`
}

// NewSummary walks ch and returns its counts and violations. An unknown
// node kind aborts the walk.
func NewSummary(ch *model.Channel) (*Summary, error) {
	counter := channel.NewCounter()
	if err := channel.Construct(ch, counter); err != nil {
		return nil, fmt.Errorf("failed to count channel: %w", err)
	}
	validator := channel.NewValidator()
	if err := channel.Construct(ch, validator); err != nil {
		return nil, fmt.Errorf("failed to validate channel: %w", err)
	}
	return &Summary{
		Title:        ch.Title,
		SourceID:     ch.SourceID,
		SourceDomain: ch.SourceDomain,
		GeneratedAt:  time.Now().UTC(),
		Counts:       counter,
		Violations:   validator.Violations(),
	}, nil
}

// Valid reports whether no violations were found.
func (s *Summary) Valid() bool {
	return len(s.Violations) == 0
}

// languageCodes returns the video language codes in sorted order.
func (s *Summary) languageCodes() []string {
	if s.Counts == nil {
		return nil
	}
	codes := make([]string, 0, len(s.Counts.Languages))
	for code := range s.Counts.Languages {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Writer renders a Summary.
type Writer interface {
	// Write outputs the summary and returns the number of bytes written.
	Write(s *Summary) (int, error)
}

// MultiWriter writes to several Writers, for example the terminal and a
// Markdown file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all Writers and stops on the first error.
func (m *MultiWriter) Write(s *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(s)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
