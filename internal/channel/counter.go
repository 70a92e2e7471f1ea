package channel

import "github.com/nao1215/blossomchef/internal/model"

// Counter is a Consumer that tallies a content tree.
type Counter struct {
	Topics    int
	Videos    int
	Documents int
	Apps      int
	Files     int
	MaxDepth  int

	// Languages counts videos per language code.
	Languages map[string]int

	depth map[*model.Topic]int
}

// NewCounter creates a Counter.
func NewCounter() *Counter {
	return &Counter{
		Languages: make(map[string]int),
		depth:     make(map[*model.Topic]int),
	}
}

func (c *Counter) enter(parent *model.Topic) int {
	d := 1
	if parent != nil {
		d = c.depth[parent] + 1
	}
	if d > c.MaxDepth {
		c.MaxDepth = d
	}
	return d
}

// SetChannel implements Consumer.
func (c *Counter) SetChannel(*model.Channel) error { return nil }

// AddTopic implements Consumer.
func (c *Counter) AddTopic(parent *model.Topic, t *model.Topic) error {
	c.depth[t] = c.enter(parent)
	c.Topics++
	return nil
}

// AddVideo implements Consumer.
func (c *Counter) AddVideo(parent *model.Topic, v *model.Video) error {
	c.enter(parent)
	c.Videos++
	c.Files += len(v.Files)
	c.Languages[v.Language]++
	return nil
}

// AddDocument implements Consumer.
func (c *Counter) AddDocument(parent *model.Topic, d *model.Document) error {
	c.enter(parent)
	c.Documents++
	c.Files += len(d.Files)
	return nil
}

// AddHTML5App implements Consumer.
func (c *Counter) AddHTML5App(parent *model.Topic, h *model.HTML5App) error {
	c.enter(parent)
	c.Apps++
	c.Files += len(h.Files)
	return nil
}
