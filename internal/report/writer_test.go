package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/blossomchef/internal/model"
	"github.com/nao1215/blossomchef/internal/tree"
)

func testChannel() *model.Channel {
	video := func(id, language string) *model.Video {
		return &model.Video{
			Metadata: model.Metadata{SourceID: id, Title: "Tides"},
			Language: language,
			Files:    []model.File{&model.VideoFile{Path: "http://cdn/" + id + ".mp4"}},
		}
	}
	lesson := &model.Topic{
		Metadata: model.Metadata{SourceID: "node-1", Title: "Tides"},
		Children: []model.Node{video("node-1:English", "en"), video("node-1:Arabic", "ar")},
	}
	other := &model.Topic{
		Metadata: model.Metadata{SourceID: "node-2", Title: "Waves"},
		Children: []model.Node{video("node-2:English", "en")},
	}
	physics := &model.Topic{
		Metadata: model.Metadata{SourceID: "mit_blossoms_Physics", Title: "Physics"},
		Children: []model.Node{lesson, other},
	}
	return &model.Channel{
		SourceDomain: "blossoms.mit.edu",
		SourceID:     "mit_blossoms",
		Title:        "MIT Blossoms",
		Children:     []model.Node{physics},
	}
}

func testSummary(t *testing.T) *Summary {
	t.Helper()
	s, err := NewSummary(testChannel())
	if err != nil {
		t.Fatalf("NewSummary() error = %v", err)
	}
	s.Languages = []string{"English", "Arabic"}
	return s
}

func TestNewSummary(t *testing.T) {
	t.Parallel()

	t.Run("counts a valid tree", func(t *testing.T) {
		t.Parallel()

		s := testSummary(t)
		if !s.Valid() {
			t.Fatalf("unexpected violations: %v", s.Violations)
		}
		if s.Counts.Topics != 3 || s.Counts.Videos != 3 {
			t.Errorf("counts = %+v, want 3 topics and 3 videos", s.Counts)
		}
		if s.Counts.Languages["en"] != 2 || s.Counts.Languages["ar"] != 1 {
			t.Errorf("languages = %v", s.Counts.Languages)
		}
		if got := strings.Join(s.languageCodes(), ","); got != "ar,en" {
			t.Errorf("languageCodes() = %q, want ar,en", got)
		}
	})

	t.Run("collects violations", func(t *testing.T) {
		t.Parallel()

		ch := testChannel()
		ch.Children = append(ch.Children, &model.Topic{Metadata: model.Metadata{SourceID: "mit_blossoms_Physics", Title: "Again"}})
		s, err := NewSummary(ch)
		if err != nil {
			t.Fatalf("NewSummary() error = %v", err)
		}
		if s.Valid() {
			t.Error("expected duplicate source_id violation")
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes counts and status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(testSummary(t)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{"MIT Blossoms (mit_blossoms)", "Videos:     3", "Videos [ar]: 1", "Status: OK"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("lists violations", func(t *testing.T) {
		t.Parallel()

		s := testSummary(t)
		s.Violations = []string{"Topic \"x\": empty source_id"}
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(s); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if !strings.Contains(buf.String(), "1 violation(s)") {
			t.Errorf("expected violation count:\n%s", buf.String())
		}
	})

	t.Run("writes the tree outline", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteTree(testChannel()); err != nil {
			t.Fatalf("WriteTree() error = %v", err)
		}
		want := "MIT Blossoms\n" +
			"  [Topic] Physics\n" +
			"    [Topic] Tides\n" +
			"      [Video] Tides (en)\n" +
			"      [Video] Tides (ar)\n" +
			"    [Topic] Waves\n" +
			"      [Video] Tides (en)\n"
		if buf.String() != want {
			t.Errorf("outline =\n%s\nwant\n%s", buf.String(), want)
		}
	})

	t.Run("limits the outline depth", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithMaxDepth(2), WithVerbose(true)).WriteTree(testChannel()); err != nil {
			t.Fatalf("WriteTree() error = %v", err)
		}
		out := buf.String()
		if strings.Contains(out, "[Video]") {
			t.Errorf("videos printed beyond max depth:\n%s", out)
		}
		if !strings.Contains(out, "id=node-2 files=0") {
			t.Errorf("verbose details missing:\n%s", out)
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables and the language chart", func(t *testing.T) {
		t.Parallel()

		s := testSummary(t)
		s.Build = &tree.Stats{Lessons: 2, VideoMisses: 1}
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(s); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{"# MIT Blossoms", "## Content", "## Videos by Language", "```mermaid", "Arabic", "## Build", "Video misses"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if !strings.Contains(out, "[!WARNING]") {
			t.Errorf("expected warning alert for video misses:\n%s", out)
		}
	})

	t.Run("flags violations", func(t *testing.T) {
		t.Parallel()

		s := testSummary(t)
		s.Violations = []string{"channel: empty title"}
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(s); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "[!CAUTION]") || !strings.Contains(out, "channel: empty title") {
			t.Errorf("expected caution alert and violation list:\n%s", out)
		}
	})

	t.Run("omits build section without stats", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(testSummary(t)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if strings.Contains(buf.String(), "## Build") {
			t.Error("unexpected build section")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(testSummary(t)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got["source_id"] != "mit_blossoms" {
			t.Errorf("source_id = %v", got["source_id"])
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected a single line of compact JSON")
		}
	})

	t.Run("pretty printed tree", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Encode(testChannel()); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
		ch, err := model.DecodeChannel(&buf)
		if err != nil {
			t.Fatalf("DecodeChannel() error = %v", err)
		}
		if len(ch.Children) != 1 {
			t.Errorf("decoded %d root children, want 1", len(ch.Children))
		}
	})
}

func TestWriteJSONFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "content_tree.json")
	if err := WriteJSONFile(path, testChannel()); err != nil {
		t.Fatalf("WriteJSONFile() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	ch, err := model.DecodeChannel(f)
	if err != nil {
		t.Fatalf("DecodeChannel() error = %v", err)
	}
	if ch.SourceID != "mit_blossoms" {
		t.Errorf("SourceID = %q", ch.SourceID)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the final file, got %d entries", len(entries))
	}
}

type failingWriter struct{}

func (failingWriter) Write(*Summary) (int, error) { return 0, errors.New("boom") }

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	m := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
	n, err := m.Write(testSummary(t))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != a.Len()+b.Len() {
		t.Errorf("n = %d, want %d", n, a.Len()+b.Len())
	}

	if _, err := NewMultiWriter(failingWriter{}, NewSimpleWriter(&a)).Write(testSummary(t)); err == nil {
		t.Error("expected error from failing writer")
	}
}
