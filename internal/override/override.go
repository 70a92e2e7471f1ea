// Package override applies declarative patches to a built content tree.
//
// An override file is a JSON array of
//
//	{"match": {"<field>": "<pattern>", ...}, "update": {"<field>": "<value>", ...}}
//
// A node matches when every field named in match is set on the node and
// its value matches the pattern (a regular expression, so a plain string
// matches as a substring). Matching nodes get every update field
// overwritten. Overrides are applied one after the other over the whole
// tree, so later overrides see the edits of earlier ones.
//
// Known fields are source_id, title, author, description, thumbnail and
// language. language only exists on videos.
package override

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/nao1215/blossomchef/internal/model"
)

var (
	// ErrInvalidPattern is returned for match patterns that do not compile.
	ErrInvalidPattern = errors.New("invalid override pattern")

	// ErrUnknownField is returned for match or update fields that no
	// content node has.
	ErrUnknownField = errors.New("unknown override field")
)

// Field names.
const (
	FieldSourceID    = "source_id"
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldDescription = "description"
	FieldThumbnail   = "thumbnail"
	FieldLanguage    = "language"
)

var knownFields = map[string]bool{
	FieldSourceID:    true,
	FieldTitle:       true,
	FieldAuthor:      true,
	FieldDescription: true,
	FieldThumbnail:   true,
	FieldLanguage:    true,
}

// Override is one patch rule.
type Override struct {
	Match  map[string]string `json:"match"`
	Update map[string]string `json:"update"`
}

type matcher struct {
	field string
	re    *regexp.Regexp
}

type rule struct {
	match  []matcher
	update []string
	values map[string]string
}

// Engine holds validated overrides.
type Engine struct {
	rules []rule
}

// New validates overrides and compiles their patterns.
func New(overrides []Override) (*Engine, error) {
	e := &Engine{rules: make([]rule, 0, len(overrides))}
	for i, o := range overrides {
		r := rule{values: o.Update}
		for _, field := range sortedKeys(o.Match) {
			if !knownFields[field] {
				return nil, fmt.Errorf("override %d: %w: match field %q", i, ErrUnknownField, field)
			}
			re, err := regexp.Compile(o.Match[field])
			if err != nil {
				return nil, fmt.Errorf("override %d: %w: %s: %v", i, ErrInvalidPattern, field, err)
			}
			r.match = append(r.match, matcher{field: field, re: re})
		}
		for _, field := range sortedKeys(o.Update) {
			if !knownFields[field] {
				return nil, fmt.Errorf("override %d: %w: update field %q", i, ErrUnknownField, field)
			}
			r.update = append(r.update, field)
		}
		e.rules = append(e.rules, r)
	}
	return e, nil
}

// Load decodes an override file and validates it.
func Load(r io.Reader) (*Engine, error) {
	var overrides []Override
	if err := json.NewDecoder(r).Decode(&overrides); err != nil {
		return nil, fmt.Errorf("failed to decode overrides: %w", err)
	}
	return New(overrides)
}

// LoadFile reads overrides from path.
func LoadFile(path string) (*Engine, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open overrides: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Len returns the number of overrides.
func (e *Engine) Len() int {
	return len(e.rules)
}

// Apply patches nodes and all their descendants in place and returns the
// number of node updates performed.
func (e *Engine) Apply(nodes []model.Node) int {
	updates := 0
	for _, r := range e.rules {
		_ = model.Walk(nodes, func(n model.Node, _ int) error {
			if r.matches(n) {
				r.apply(n)
				updates++
			}
			return nil
		})
	}
	return updates
}

// ApplyChannel patches every content node below the channel root.
func (e *Engine) ApplyChannel(ch *model.Channel) int {
	return e.Apply(ch.Children)
}

func (r rule) matches(n model.Node) bool {
	for _, m := range r.match {
		v, ok := get(n, m.field)
		if !ok || !m.re.MatchString(v) {
			return false
		}
	}
	return true
}

func (r rule) apply(n model.Node) {
	for _, field := range r.update {
		set(n, field, r.values[field])
	}
}

// get returns a field value; fields that are empty or do not exist on the
// node are reported as absent.
func get(n model.Node, field string) (string, bool) {
	var v string
	meta := n.Meta()
	switch field {
	case FieldSourceID:
		v = meta.SourceID
	case FieldTitle:
		v = meta.Title
	case FieldAuthor:
		v = meta.Author
	case FieldDescription:
		v = meta.Description
	case FieldThumbnail:
		v = meta.Thumbnail
	case FieldLanguage:
		if video, ok := n.(*model.Video); ok {
			v = video.Language
		}
	}
	return v, v != ""
}

func set(n model.Node, field, value string) {
	meta := n.Meta()
	switch field {
	case FieldSourceID:
		meta.SourceID = value
	case FieldTitle:
		meta.Title = value
	case FieldAuthor:
		meta.Author = value
	case FieldDescription:
		meta.Description = value
	case FieldThumbnail:
		meta.Thumbnail = value
	case FieldLanguage:
		if video, ok := n.(*model.Video); ok {
			video.Language = value
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
