package tree

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nao1215/blossomchef/internal/model"
	"github.com/nao1215/blossomchef/internal/naming"
)

func group(title string, children ...model.Node) *model.Topic {
	return &model.Topic{Metadata: model.Metadata{SourceID: naming.ClusterID(title), Title: title}, Children: children}
}

func lessonNode(id int) *model.Topic {
	lid := naming.LessonID(id)
	return &model.Topic{
		Metadata: model.Metadata{SourceID: naming.LessonSourceID(lid), Title: fmt.Sprintf("L%d", id)},
		Children: []model.Node{&model.Video{Metadata: model.Metadata{SourceID: naming.VideoID(lid, "English"), Title: "v"}}},
	}
}

// firstTopic returns a topic holding clusters c0..c(clusters-1) followed by
// lesson containers up to n children in total.
func firstTopic(clusters, n int) *model.Topic {
	first := group("First")
	for i := 0; i < n; i++ {
		if i < clusters {
			name := fmt.Sprintf("c%d", i)
			first.Children = append(first.Children, group(name, lessonNode(100+2*i), lessonNode(101+2*i)))
			continue
		}
		first.Children = append(first.Children, lessonNode(i))
	}
	return first
}

func fullChannel(n int) *model.Channel {
	return &model.Channel{SourceID: "root", Title: "Root", Children: []model.Node{firstTopic(3, n), group("Second")}}
}

func TestPrune(t *testing.T) {
	t.Parallel()

	full := fullChannel(10)
	pruned, err := Prune(full)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	if len(pruned.Children) != 1 || pruned.SourceID != "root" {
		t.Fatalf("pruned root = %+v", pruned)
	}
	first := pruned.Children[0].(*model.Topic)
	if got := childTitles(first.Children); got != "c0,c2,L6,L7,L8" {
		t.Errorf("first topic children = %s", got)
	}
	for i := 0; i < 2; i++ {
		cluster := first.Children[i].(*model.Topic)
		if len(cluster.Children) != 1 {
			t.Errorf("cluster %s has %d children, want 1", cluster.Title, len(cluster.Children))
		}
	}

	if len(full.Children) != 2 {
		t.Error("Prune() modified the input channel")
	}
	if c0 := full.Children[0].(*model.Topic).Children[0].(*model.Topic); len(c0.Children) != 2 {
		t.Error("Prune() trimmed a cluster of the input channel")
	}

	again, err := Prune(full)
	if err != nil {
		t.Fatal(err)
	}
	if childTitles(again.Children[0].(*model.Topic).Children) != childTitles(first.Children) {
		t.Error("Prune() is not deterministic")
	}
}

func TestPruneTooSmall(t *testing.T) {
	t.Parallel()

	emptyCluster := firstTopic(3, 9)
	emptyCluster.Children[2] = group("c2")

	tests := map[string]*model.Channel{
		"no topics":                  {},
		"eight children":             fullChannel(8),
		"empty cluster":              {Children: []model.Node{emptyCluster}},
		"non topic first":            {Children: []model.Node{&model.Video{}}},
		"lesson at a cluster slot":   {Children: []model.Node{firstTopic(1, 9)}},
		"cluster at a lesson slot":   {Children: []model.Node{firstTopic(7, 9)}},
		"video at a lesson slot":     {Children: []model.Node{withChild(firstTopic(3, 9), 8, &model.Video{Metadata: model.Metadata{SourceID: "node-8"}})}},
		"lessons with malformed ids": {Children: []model.Node{withChild(firstTopic(3, 9), 6, &model.Topic{Metadata: model.Metadata{SourceID: "node-x"}})}},
	}
	for name, ch := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Prune(ch); !errors.Is(err, ErrTreeTooSmall) {
				t.Errorf("Prune() error = %v, want ErrTreeTooSmall", err)
			}
		})
	}
}

func withChild(topic *model.Topic, i int, n model.Node) *model.Topic {
	topic.Children[i] = n
	return topic
}
