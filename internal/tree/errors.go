package tree

import "errors"

var (
	// ErrUnexpectedNode is returned when the raw tree contains a node kind
	// the builder does not know. It signals a change of the crawl format.
	ErrUnexpectedNode = errors.New("unexpected raw resource node")

	// ErrTreeTooSmall is returned by Prune when the tree lacks the nodes
	// the pruned subset is drawn from.
	ErrTreeTooSmall = errors.New("content tree too small to prune")
)
