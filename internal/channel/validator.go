package channel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/blossomchef/internal/model"
)

// Validator is a Consumer that records structural violations instead of
// stopping at the first one. Call Err after Construct.
type Validator struct {
	violations []string
	siblings   map[*model.Topic]map[string]bool
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{siblings: make(map[*model.Topic]map[string]bool)}
}

// Violations returns every recorded violation in discovery order.
func (v *Validator) Violations() []string {
	return v.violations
}

// Err returns nil for a valid tree, or ErrInvalidChannel wrapping every
// violation.
func (v *Validator) Err() error {
	if len(v.violations) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d problem(s):\n  %s", ErrInvalidChannel, len(v.violations), strings.Join(v.violations, "\n  "))
}

func (v *Validator) addf(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

// SetChannel implements Consumer.
func (v *Validator) SetChannel(ch *model.Channel) error {
	if ch.SourceDomain == "" {
		v.addf("channel: empty source_domain")
	}
	if ch.SourceID == "" {
		v.addf("channel: empty source_id")
	}
	if ch.Title == "" {
		v.addf("channel: empty title")
	}
	return nil
}

func (v *Validator) node(parent *model.Topic, n model.Node) {
	meta := n.Meta()
	where := fmt.Sprintf("%s %q", n.Kind(), meta.Title)
	if meta.SourceID == "" {
		v.addf("%s: empty source_id", where)
	}
	if meta.Title == "" {
		v.addf("%s %q: empty title", n.Kind(), meta.SourceID)
	}

	seen, ok := v.siblings[parent]
	if !ok {
		seen = make(map[string]bool)
		v.siblings[parent] = seen
	}
	if meta.SourceID != "" {
		if seen[meta.SourceID] {
			v.addf("%s: duplicate source_id %q among siblings", where, meta.SourceID)
		}
		seen[meta.SourceID] = true
	}
}

func (v *Validator) files(n model.Node, want model.FileType) {
	found := false
	for _, f := range model.FilesOf(n) {
		if f.Location() == "" {
			v.addf("%s %q: %s file with empty path", n.Kind(), n.Meta().SourceID, f.Type())
		}
		if f.Type() == want {
			found = true
		}
	}
	if !found {
		v.addf("%s %q: no %s file", n.Kind(), n.Meta().SourceID, want)
	}
}

// AddTopic implements Consumer.
func (v *Validator) AddTopic(parent *model.Topic, t *model.Topic) error {
	v.node(parent, t)
	return nil
}

// AddVideo implements Consumer.
func (v *Validator) AddVideo(parent *model.Topic, n *model.Video) error {
	v.node(parent, n)
	v.files(n, model.FileVideo)
	return nil
}

// AddDocument implements Consumer.
func (v *Validator) AddDocument(parent *model.Topic, d *model.Document) error {
	v.node(parent, d)
	v.files(d, model.FileDocument)
	return nil
}

// AddHTML5App implements Consumer.
func (v *Validator) AddHTML5App(parent *model.Topic, h *model.HTML5App) error {
	v.node(parent, h)
	v.files(h, model.FileHTMLZip)
	return nil
}

// Validate runs a Validator over ch.
func Validate(ch *model.Channel) error {
	v := NewValidator()
	if err := Construct(ch, v); err != nil {
		return errors.Join(err, v.Err())
	}
	return v.Err()
}
