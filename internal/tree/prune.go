package tree

import (
	"fmt"

	"github.com/nao1215/blossomchef/internal/model"
	"github.com/nao1215/blossomchef/internal/naming"
)

// Positions, within the first topic, of the children kept by Prune.
var (
	prunedClusters = []int{0, 2}
	prunedLessons  = []int{6, 7, 8}
)

// Prune returns a small tree for quick test runs: the first topic only,
// holding two clusters (the first and third child) trimmed to their first
// lesson, followed by the seventh to ninth children. The input is not
// modified. Trees without those positions fail with ErrTreeTooSmall.
func Prune(ch *model.Channel) (*model.Channel, error) {
	if len(ch.Children) == 0 {
		return nil, fmt.Errorf("%w: channel has no topics", ErrTreeTooSmall)
	}
	first, ok := ch.Children[0].(*model.Topic)
	if !ok {
		return nil, fmt.Errorf("%w: first child is a %s", ErrTreeTooSmall, ch.Children[0].Kind())
	}
	if need := prunedLessons[len(prunedLessons)-1] + 1; len(first.Children) < need {
		return nil, fmt.Errorf("%w: first topic has %d children, need %d", ErrTreeTooSmall, len(first.Children), need)
	}

	children := make([]model.Node, 0, len(prunedClusters)+len(prunedLessons))
	for _, i := range prunedClusters {
		cluster, ok := first.Children[i].(*model.Topic)
		if !ok || !naming.IsGroupID(cluster.SourceID) || len(cluster.Children) == 0 {
			return nil, fmt.Errorf("%w: child %d of the first topic is not a non-empty cluster", ErrTreeTooSmall, i)
		}
		trimmed := *cluster
		trimmed.Children = []model.Node{cluster.Children[0]}
		children = append(children, &trimmed)
	}
	for _, i := range prunedLessons {
		lesson, ok := first.Children[i].(*model.Topic)
		if !ok || !naming.IsLessonID(lesson.SourceID) {
			return nil, fmt.Errorf("%w: child %d of the first topic is not a lesson", ErrTreeTooSmall, i)
		}
		children = append(children, lesson)
	}

	topic := *first
	topic.Children = children
	pruned := *ch
	pruned.Children = []model.Node{&topic}
	return &pruned, nil
}
