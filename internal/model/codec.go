package model

import (
	"encoding/json"
	"fmt"
	"io"
)

type resourceTreeJSON struct {
	Kind         string    `json:"kind"`
	SourceDomain string    `json:"source_domain"`
	SourceID     string    `json:"source_id"`
	Title        string    `json:"title"`
	Thumbnail    string    `json:"thumbnail"`
	Children     []RawNode `json:"children"`
}

type rawNodeJSON struct {
	Kind     RawKind   `json:"kind"`
	Title    string    `json:"title"`
	URL      string    `json:"url,omitempty"`
	Children []RawNode `json:"children,omitempty"`
}

type rawEnvelope struct {
	Kind     RawKind           `json:"kind"`
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	Children []json.RawMessage `json:"children"`
}

// MarshalJSON encodes the tree as a ResourceTree root object.
func (t *ResourceTree) MarshalJSON() ([]byte, error) {
	children := t.Children
	if children == nil {
		children = []RawNode{}
	}
	return json.Marshal(resourceTreeJSON{
		Kind:         ResourceTreeKind,
		SourceDomain: t.SourceDomain,
		SourceID:     t.SourceID,
		Title:        t.Title,
		Thumbnail:    t.Thumbnail,
		Children:     children,
	})
}

// UnmarshalJSON decodes a ResourceTree root object. Unknown child kinds
// fail with ErrUnknownNodeKind.
func (t *ResourceTree) UnmarshalJSON(data []byte) error {
	var root struct {
		Kind         string            `json:"kind"`
		SourceDomain string            `json:"source_domain"`
		SourceID     string            `json:"source_id"`
		Title        string            `json:"title"`
		Thumbnail    string            `json:"thumbnail"`
		Children     []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	if root.Kind != ResourceTreeKind {
		return fmt.Errorf("%w: %q (want %q)", ErrUnexpectedRoot, root.Kind, ResourceTreeKind)
	}
	children, err := decodeRawNodes(root.Children)
	if err != nil {
		return err
	}
	*t = ResourceTree{
		SourceDomain: root.SourceDomain,
		SourceID:     root.SourceID,
		Title:        root.Title,
		Thumbnail:    root.Thumbnail,
		Children:     children,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l *LanguageResource) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawNodeJSON{Kind: RawLanguage, Title: l.Name, URL: l.URL, Children: l.Children})
}

// MarshalJSON implements json.Marshaler.
func (t *TopicResource) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawNodeJSON{Kind: RawTopic, Title: t.Title, Children: t.Children})
}

// MarshalJSON implements json.Marshaler.
func (c *ClusterResource) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawNodeJSON{Kind: RawCluster, Title: c.Title, Children: c.Children})
}

// MarshalJSON implements json.Marshaler.
func (l *LessonRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(rawNodeJSON{Kind: RawLessonRef, Title: l.Title, URL: l.URL})
}

func decodeRawNodes(msgs []json.RawMessage) ([]RawNode, error) {
	nodes := make([]RawNode, 0, len(msgs))
	for _, msg := range msgs {
		n, err := decodeRawNode(msg)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func decodeRawNode(data json.RawMessage) (RawNode, error) {
	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Kind {
	case RawLessonRef:
		return &LessonRef{Title: env.Title, URL: env.URL}, nil
	case RawLanguage, RawTopic, RawCluster:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeKind, env.Kind)
	}

	children, err := decodeRawNodes(env.Children)
	if err != nil {
		return nil, err
	}
	switch env.Kind {
	case RawLanguage:
		return &LanguageResource{Name: env.Title, URL: env.URL, Children: children}, nil
	case RawTopic:
		return &TopicResource{Title: env.Title, Children: children}, nil
	default:
		return &ClusterResource{Title: env.Title, Children: children}, nil
	}
}

type channelJSON struct {
	Kind         string `json:"kind"`
	SourceDomain string `json:"source_domain"`
	SourceID     string `json:"source_id"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	Children     []Node `json:"children"`
}

type nodeJSON struct {
	Kind Kind `json:"kind"`
	Metadata
	Language        string  `json:"language,omitempty"`
	DeriveThumbnail bool    `json:"derive_thumbnail,omitempty"`
	Children        *[]Node `json:"children,omitempty"`
	Files           []File  `json:"files,omitempty"`
}

type nodeEnvelope struct {
	Kind Kind `json:"kind"`
	Metadata
	Language        string            `json:"language"`
	DeriveThumbnail bool              `json:"derive_thumbnail"`
	Children        []json.RawMessage `json:"children"`
	Files           []json.RawMessage `json:"files"`
}

type fileJSON struct {
	FileType       FileType       `json:"file_type"`
	Path           string         `json:"path"`
	FFmpegSettings map[string]int `json:"ffmpeg_settings,omitempty"`
	Language       string         `json:"language,omitempty"`
}

// MarshalJSON encodes the channel as a ChannelNode root object.
func (c *Channel) MarshalJSON() ([]byte, error) {
	children := c.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(channelJSON{
		Kind:         ChannelKind,
		SourceDomain: c.SourceDomain,
		SourceID:     c.SourceID,
		Title:        c.Title,
		Thumbnail:    c.Thumbnail,
		Children:     children,
	})
}

// UnmarshalJSON decodes a ChannelNode root object. Unknown node kinds and
// file types fail with ErrUnknownNodeKind and ErrUnknownFileType.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var root struct {
		Kind         string            `json:"kind"`
		SourceDomain string            `json:"source_domain"`
		SourceID     string            `json:"source_id"`
		Title        string            `json:"title"`
		Thumbnail    string            `json:"thumbnail"`
		Children     []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	if root.Kind != ChannelKind {
		return fmt.Errorf("%w: %q (want %q)", ErrUnexpectedRoot, root.Kind, ChannelKind)
	}
	children, err := decodeNodes(root.Children)
	if err != nil {
		return err
	}
	*c = Channel{
		SourceDomain: root.SourceDomain,
		SourceID:     root.SourceID,
		Title:        root.Title,
		Thumbnail:    root.Thumbnail,
		Children:     children,
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Topics always carry a children array.
func (t *Topic) MarshalJSON() ([]byte, error) {
	children := t.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(nodeJSON{Kind: KindTopic, Metadata: t.Metadata, Children: &children})
}

// MarshalJSON implements json.Marshaler.
func (v *Video) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{
		Kind:            KindVideo,
		Metadata:        v.Metadata,
		Language:        v.Language,
		DeriveThumbnail: v.DeriveThumbnail,
		Files:           v.Files,
	})
}

// MarshalJSON implements json.Marshaler.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{Kind: KindDocument, Metadata: d.Metadata, Files: d.Files})
}

// MarshalJSON implements json.Marshaler.
func (h *HTML5App) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{Kind: KindHTML5App, Metadata: h.Metadata, Files: h.Files})
}

// MarshalJSON implements json.Marshaler.
func (f *VideoFile) MarshalJSON() ([]byte, error) {
	return json.Marshal(fileJSON{FileType: FileVideo, Path: f.Path, FFmpegSettings: f.FFmpegSettings})
}

// MarshalJSON implements json.Marshaler.
func (f *ThumbnailFile) MarshalJSON() ([]byte, error) {
	return json.Marshal(fileJSON{FileType: FileThumbnail, Path: f.Path})
}

// MarshalJSON implements json.Marshaler.
func (f *HTMLZipFile) MarshalJSON() ([]byte, error) {
	return json.Marshal(fileJSON{FileType: FileHTMLZip, Path: f.Path, Language: f.Language})
}

// MarshalJSON implements json.Marshaler.
func (f *DocumentFile) MarshalJSON() ([]byte, error) {
	return json.Marshal(fileJSON{FileType: FileDocument, Path: f.Path, Language: f.Language})
}

func decodeNodes(msgs []json.RawMessage) ([]Node, error) {
	nodes := make([]Node, 0, len(msgs))
	for _, msg := range msgs {
		n, err := decodeNode(msg)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func decodeNode(data json.RawMessage) (Node, error) {
	var env nodeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Kind {
	case KindTopic:
		children, err := decodeNodes(env.Children)
		if err != nil {
			return nil, err
		}
		return &Topic{Metadata: env.Metadata, Children: children}, nil
	case KindVideo, KindDocument, KindHTML5App:
	default:
		return nil, fmt.Errorf("%w: %q (source_id %q)", ErrUnknownNodeKind, env.Kind, env.SourceID)
	}

	files, err := decodeFiles(env.Files)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", env.SourceID, err)
	}
	switch env.Kind {
	case KindVideo:
		return &Video{
			Metadata:        env.Metadata,
			Language:        env.Language,
			DeriveThumbnail: env.DeriveThumbnail,
			Files:           files,
		}, nil
	case KindDocument:
		return &Document{Metadata: env.Metadata, Files: files}, nil
	default:
		return &HTML5App{Metadata: env.Metadata, Files: files}, nil
	}
}

func decodeFiles(msgs []json.RawMessage) ([]File, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	files := make([]File, 0, len(msgs))
	for _, msg := range msgs {
		var f fileJSON
		if err := json.Unmarshal(msg, &f); err != nil {
			return nil, err
		}
		switch f.FileType {
		case FileVideo:
			files = append(files, &VideoFile{Path: f.Path, FFmpegSettings: f.FFmpegSettings})
		case FileThumbnail:
			files = append(files, &ThumbnailFile{Path: f.Path})
		case FileHTMLZip:
			files = append(files, &HTMLZipFile{Path: f.Path, Language: f.Language})
		case FileDocument:
			files = append(files, &DocumentFile{Path: f.Path, Language: f.Language})
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFileType, f.FileType)
		}
	}
	return files, nil
}

// DecodeResourceTree reads a persisted raw resource tree.
func DecodeResourceTree(r io.Reader) (*ResourceTree, error) {
	var t ResourceTree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode resource tree: %w", err)
	}
	return &t, nil
}

// DecodeChannel reads a persisted content tree.
func DecodeChannel(r io.Reader) (*Channel, error) {
	var c Channel
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode content tree: %w", err)
	}
	return &c, nil
}
