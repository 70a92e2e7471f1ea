package model

// RawKind tags the variants of the raw resource tree.
type RawKind string

// Raw resource node kinds.
const (
	RawLanguage  RawKind = "Language"
	RawTopic     RawKind = "Topic"
	RawCluster   RawKind = "Cluster"
	RawLessonRef RawKind = "LessonRef"
)

// ResourceTreeKind is the kind tag of the raw tree root object.
const ResourceTreeKind = "ResourceTree"

// ResourceTree is the root of the crawl result.
type ResourceTree struct {
	SourceDomain string
	SourceID     string
	Title        string
	Thumbnail    string
	Children     []RawNode
}

// RawNode is one node of the raw resource tree. The set of implementations
// is closed: LanguageResource, TopicResource, ClusterResource and LessonRef.
type RawNode interface {
	// Kind returns the variant tag used in the persisted JSON.
	Kind() RawKind

	// NodeTitle returns the display title (the language name for Language nodes).
	NodeTitle() string

	rawNode()
}

// LanguageResource groups the topics discovered on one language listing page.
type LanguageResource struct {
	Name     string
	URL      string
	Children []RawNode
}

// TopicResource is a top-level subject grouping lessons and clusters.
type TopicResource struct {
	Title    string
	Children []RawNode
}

// ClusterResource is a site-assigned grouping of lessons within a topic.
type ClusterResource struct {
	Title    string
	Children []RawNode
}

// LessonRef points at one lesson page. It is a leaf. The same *LessonRef
// may be shared by several clusters of one topic.
type LessonRef struct {
	Title string
	URL   string
}

// Kind implements RawNode.
func (*LanguageResource) Kind() RawKind { return RawLanguage }

// Kind implements RawNode.
func (*TopicResource) Kind() RawKind { return RawTopic }

// Kind implements RawNode.
func (*ClusterResource) Kind() RawKind { return RawCluster }

// Kind implements RawNode.
func (*LessonRef) Kind() RawKind { return RawLessonRef }

// NodeTitle implements RawNode.
func (l *LanguageResource) NodeTitle() string { return l.Name }

// NodeTitle implements RawNode.
func (t *TopicResource) NodeTitle() string { return t.Title }

// NodeTitle implements RawNode.
func (c *ClusterResource) NodeTitle() string { return c.Title }

// NodeTitle implements RawNode.
func (l *LessonRef) NodeTitle() string { return l.Title }

func (*LanguageResource) rawNode() {}
func (*TopicResource) rawNode()    {}
func (*ClusterResource) rawNode()  {}
func (*LessonRef) rawNode()        {}
