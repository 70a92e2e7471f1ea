package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestResourceTreeJSON(t *testing.T) {
	t.Parallel()

	t.Run("shared lesson refs are written under every cluster", func(t *testing.T) {
		t.Parallel()

		shared := &LessonRef{Title: "Lesson", URL: "https://example.org/l"}
		tree := &ResourceTree{
			SourceDomain: "example.org",
			SourceID:     "root",
			Title:        "Root",
			Children: []RawNode{
				&LanguageResource{Name: "English", URL: "https://example.org/en", Children: []RawNode{
					&TopicResource{Title: "Math", Children: []RawNode{
						&ClusterResource{Title: "A", Children: []RawNode{shared}},
						&ClusterResource{Title: "B", Children: []RawNode{shared}},
					}},
				}},
			},
		}

		data, err := json.Marshal(tree)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if got := strings.Count(string(data), `"kind":"LessonRef"`); got != 2 {
			t.Errorf("expected 2 LessonRef objects, got %d in %s", got, data)
		}

		decoded, err := DecodeResourceTree(strings.NewReader(string(data)))
		if err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		lang, ok := decoded.Children[0].(*LanguageResource)
		if !ok {
			t.Fatalf("expected *LanguageResource, got %T", decoded.Children[0])
		}
		if lang.Name != "English" || lang.URL != "https://example.org/en" {
			t.Errorf("unexpected language node: %+v", lang)
		}
		topic := lang.Children[0].(*TopicResource)
		if len(topic.Children) != 2 {
			t.Fatalf("expected 2 clusters, got %d", len(topic.Children))
		}
		ref := topic.Children[1].(*ClusterResource).Children[0].(*LessonRef)
		if ref.URL != "https://example.org/l" {
			t.Errorf("unexpected lesson url %q", ref.URL)
		}
	})

	t.Run("rejects unknown node kind", func(t *testing.T) {
		t.Parallel()

		input := `{"kind":"ResourceTree","children":[{"kind":"Playlist","title":"x"}]}`
		_, err := DecodeResourceTree(strings.NewReader(input))
		if !errors.Is(err, ErrUnknownNodeKind) {
			t.Errorf("expected ErrUnknownNodeKind, got %v", err)
		}
	})

	t.Run("rejects wrong root kind", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeResourceTree(strings.NewReader(`{"kind":"ChannelNode"}`))
		if !errors.Is(err, ErrUnexpectedRoot) {
			t.Errorf("expected ErrUnexpectedRoot, got %v", err)
		}
	})
}

func TestChannelJSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes the persisted node shape", func(t *testing.T) {
		t.Parallel()

		ch := &Channel{
			SourceDomain: "example.org",
			SourceID:     "chan",
			Title:        "Channel",
			Children: []Node{
				&Topic{Metadata: Metadata{SourceID: "t", Title: "Topic"}},
				&Video{
					Metadata:        Metadata{SourceID: "node-1:English", Title: "English: L"},
					Language:        "en",
					DeriveThumbnail: true,
					Files:           []File{&VideoFile{Path: "http://cdn/x.mp4", FFmpegSettings: map[string]int{"crf": 24}}},
				},
			},
		}

		data, err := json.Marshal(ch)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		s := string(data)
		for _, want := range []string{
			`"kind":"ChannelNode"`,
			`{"kind":"Topic","source_id":"t","title":"Topic","children":[]}`,
			`"file_type":"Video","path":"http://cdn/x.mp4","ffmpeg_settings":{"crf":24}`,
			`"language":"en"`,
		} {
			if !strings.Contains(s, want) {
				t.Errorf("expected %s in %s", want, s)
			}
		}

		decoded, err := DecodeChannel(strings.NewReader(s))
		if err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		video, ok := decoded.Children[1].(*Video)
		if !ok {
			t.Fatalf("expected *Video, got %T", decoded.Children[1])
		}
		vf, ok := video.Files[0].(*VideoFile)
		if !ok || vf.FFmpegSettings["crf"] != 24 {
			t.Errorf("unexpected video file %#v", video.Files[0])
		}
	})

	t.Run("rejects unknown file type", func(t *testing.T) {
		t.Parallel()

		input := `{"kind":"ChannelNode","children":[{"kind":"Document","source_id":"d","title":"d",
			"files":[{"file_type":"Audio","path":"x"}]}]}`
		_, err := DecodeChannel(strings.NewReader(input))
		if !errors.Is(err, ErrUnknownFileType) {
			t.Errorf("expected ErrUnknownFileType, got %v", err)
		}
	})

	t.Run("rejects unknown node kind", func(t *testing.T) {
		t.Parallel()

		input := `{"kind":"ChannelNode","children":[{"kind":"Exercise","source_id":"e","title":"e"}]}`
		_, err := DecodeChannel(strings.NewReader(input))
		if !errors.Is(err, ErrUnknownNodeKind) {
			t.Errorf("expected ErrUnknownNodeKind, got %v", err)
		}
	})
}

func TestWalk(t *testing.T) {
	t.Parallel()

	nodes := []Node{
		&Topic{Metadata: Metadata{Title: "a"}, Children: []Node{
			&Document{Metadata: Metadata{Title: "b"}},
			&Topic{Metadata: Metadata{Title: "c"}, Children: []Node{
				&HTML5App{Metadata: Metadata{Title: "d"}},
			}},
		}},
		&Video{Metadata: Metadata{Title: "e"}},
	}

	var order []string
	var depths []int
	err := Walk(nodes, func(n Node, depth int) error {
		order = append(order, n.Meta().Title)
		depths = append(depths, depth)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(order, ""); got != "abcde" {
		t.Errorf("expected pre-order abcde, got %s", got)
	}
	wantDepths := []int{0, 1, 1, 2, 0}
	for i, d := range wantDepths {
		if depths[i] != d {
			t.Errorf("node %s: expected depth %d, got %d", order[i], d, depths[i])
		}
	}

	stop := errors.New("stop")
	visited := 0
	err = Walk(nodes, func(Node, int) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || visited != 2 {
		t.Errorf("expected walk to stop after 2 nodes, visited %d err %v", visited, err)
	}
}
