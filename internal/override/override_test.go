package override

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/blossomchef/internal/model"
)

func topic(title string, children ...model.Node) *model.Topic {
	return &model.Topic{Metadata: model.Metadata{Title: title}, Children: children}
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("matching title is replaced", func(t *testing.T) {
		t.Parallel()

		e, err := New([]Override{{Match: map[string]string{"title": "Fo"}, Update: map[string]string{"title": "Bar"}}})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		node := topic("Foo")
		if n := e.Apply([]model.Node{node}); n != 1 {
			t.Errorf("Apply() = %d, want 1", n)
		}
		if node.Title != "Bar" || len(node.Children) != 0 {
			t.Errorf("node = %+v", node)
		}
	})

	t.Run("non matching pattern leaves node unchanged", func(t *testing.T) {
		t.Parallel()

		e, _ := New([]Override{{Match: map[string]string{"title": "Baz"}, Update: map[string]string{"title": "Bar"}}})
		node := topic("Foo")
		if n := e.Apply([]model.Node{node}); n != 0 || node.Title != "Foo" {
			t.Errorf("Apply() = %d, node = %+v", n, node)
		}
	})

	t.Run("absent field never matches", func(t *testing.T) {
		t.Parallel()

		e, _ := New([]Override{{Match: map[string]string{"author": ".*"}, Update: map[string]string{"author": "X"}}})
		node := topic("Foo")
		e.Apply([]model.Node{node})
		if node.Author != "" {
			t.Errorf("author = %q, want unchanged", node.Author)
		}
	})

	t.Run("all match fields must match", func(t *testing.T) {
		t.Parallel()

		e, _ := New([]Override{{
			Match:  map[string]string{"title": "Foo", "source_id": "^node-1$"},
			Update: map[string]string{"description": "patched"},
		}})
		a := &model.Topic{Metadata: model.Metadata{Title: "Foo", SourceID: "node-1"}}
		b := &model.Topic{Metadata: model.Metadata{Title: "Foo", SourceID: "node-12"}}
		e.Apply([]model.Node{a, b})
		if a.Description != "patched" || b.Description != "" {
			t.Errorf("descriptions = %q, %q", a.Description, b.Description)
		}
	})

	t.Run("descendants and chained overrides", func(t *testing.T) {
		t.Parallel()

		video := &model.Video{Metadata: model.Metadata{Title: "English: Tides", Author: "Ada Lovelace Grace Hopper"}, Language: "en"}
		root := topic("Physics", topic("Tides", video))
		e, _ := New([]Override{
			{Match: map[string]string{"author": "Lovelace Grace"}, Update: map[string]string{"author": "Ada Lovelace,Grace Hopper"}},
			{Match: map[string]string{"author": "Lovelace,Grace", "language": "^en$"}, Update: map[string]string{"language": "en-US"}},
		})
		if n := e.Apply([]model.Node{root}); n != 2 {
			t.Errorf("Apply() = %d, want 2", n)
		}
		if video.Author != "Ada Lovelace,Grace Hopper" || video.Language != "en-US" {
			t.Errorf("video = %+v", video)
		}
	})

	t.Run("language update ignored on non-video", func(t *testing.T) {
		t.Parallel()

		e, _ := New([]Override{{Match: map[string]string{"title": "."}, Update: map[string]string{"language": "fr"}}})
		doc := &model.Document{Metadata: model.Metadata{Title: "doc"}}
		if n := e.Apply([]model.Node{doc}); n != 1 {
			t.Errorf("Apply() = %d, want 1", n)
		}
	})
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Override
		want error
	}{
		{"bad pattern", Override{Match: map[string]string{"title": "("}}, ErrInvalidPattern},
		{"unknown match field", Override{Match: map[string]string{"license": "x"}}, ErrUnknownField},
		{"unknown update field", Override{Update: map[string]string{"kind": "Video"}}, ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New([]Override{tt.in}); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "overrides.json")
	body := `[{"match": {"title": "Fo"}, "update": {"title": "Bar"}}, {"match": {}, "update": {"thumbnail": "t.png"}}]`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	e, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if e.Len() != 2 {
		t.Errorf("Len() = %d, want 2", e.Len())
	}

	ch := &model.Channel{Children: []model.Node{topic("Foo")}}
	e.ApplyChannel(ch)
	if got := ch.Children[0].Meta(); got.Title != "Bar" || got.Thumbnail != "t.png" {
		t.Errorf("node = %+v", got)
	}

	if _, err := Load(strings.NewReader(`{"match":{}}`)); err == nil {
		t.Error("Load() accepted a non-array document")
	}
}
