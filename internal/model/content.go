package model

// Kind tags the variants of the content tree.
type Kind string

// Content node kinds.
const (
	KindTopic    Kind = "Topic"
	KindVideo    Kind = "Video"
	KindDocument Kind = "Document"
	KindHTML5App Kind = "HTML5App"
)

// ChannelKind is the kind tag of the content tree root object.
const ChannelKind = "ChannelNode"

// Channel is the root of the content tree.
type Channel struct {
	SourceDomain string
	SourceID     string
	Title        string
	Thumbnail    string
	Children     []Node
}

// Metadata holds the fields shared by every content node.
type Metadata struct {
	// SourceID is stable across runs and is the merge and dedup key.
	SourceID    string `json:"source_id"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Node is one node of the content tree. The set of implementations is
// closed: Topic, Video, Document and HTML5App.
type Node interface {
	Kind() Kind

	// Meta returns a pointer to the shared fields so callers can edit
	// them in place.
	Meta() *Metadata

	contentNode()
}

// Topic is a container node. Topics, clusters, lessons and the per-lesson
// "Transcripts" and "For Teachers" folders are all Topics.
type Topic struct {
	Metadata
	Children []Node
}

// Video is one language variant of a lesson video.
type Video struct {
	Metadata
	// Language is the BCP 47 code of the requested language.
	Language        string
	DeriveThumbnail bool
	Files           []File
}

// Document is a PDF transcript or teacher guide.
type Document struct {
	Metadata
	Files []File
}

// HTML5App is a zipped standalone HTML page.
type HTML5App struct {
	Metadata
	Files []File
}

// Kind implements Node.
func (*Topic) Kind() Kind { return KindTopic }

// Kind implements Node.
func (*Video) Kind() Kind { return KindVideo }

// Kind implements Node.
func (*Document) Kind() Kind { return KindDocument }

// Kind implements Node.
func (*HTML5App) Kind() Kind { return KindHTML5App }

// Meta implements Node.
func (t *Topic) Meta() *Metadata { return &t.Metadata }

// Meta implements Node.
func (v *Video) Meta() *Metadata { return &v.Metadata }

// Meta implements Node.
func (d *Document) Meta() *Metadata { return &d.Metadata }

// Meta implements Node.
func (h *HTML5App) Meta() *Metadata { return &h.Metadata }

func (*Topic) contentNode()    {}
func (*Video) contentNode()    {}
func (*Document) contentNode() {}
func (*HTML5App) contentNode() {}

// ChildrenOf returns the children of n. Only Topics have children.
func ChildrenOf(n Node) []Node {
	if t, ok := n.(*Topic); ok {
		return t.Children
	}
	return nil
}

// FilesOf returns the files attached to n. Topics have none.
func FilesOf(n Node) []File {
	switch v := n.(type) {
	case *Video:
		return v.Files
	case *Document:
		return v.Files
	case *HTML5App:
		return v.Files
	default:
		return nil
	}
}

// Walk visits nodes depth-first in pre-order. depth is 0 for the nodes
// passed in. Returning an error from fn stops the walk.
func Walk(nodes []Node, fn func(n Node, depth int) error) error {
	return walk(nodes, 0, fn)
}

func walk(nodes []Node, depth int, fn func(Node, int) error) error {
	for _, n := range nodes {
		if err := fn(n, depth); err != nil {
			return err
		}
		if err := walk(ChildrenOf(n), depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}
