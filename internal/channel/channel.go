// Package channel hands a content tree node by node to a Consumer, the
// collaborator that turns the tree into a deliverable channel package.
//
// Two consumers ship with the package. Validator enforces the structural
// rules a channel package must satisfy, and Counter tallies the tree for
// reports. Uploading is left to external consumers.
package channel

import (
	"errors"
	"fmt"

	"github.com/nao1215/blossomchef/internal/model"
)

// ErrInvalidChannel is reported by Validator when the tree breaks a
// structural rule.
var ErrInvalidChannel = errors.New("invalid channel")

// Consumer receives the nodes of a content tree in depth-first pre-order.
// parent is nil for the direct children of the channel root. A returned
// error stops the construction.
type Consumer interface {
	SetChannel(ch *model.Channel) error
	AddTopic(parent *model.Topic, t *model.Topic) error
	AddVideo(parent *model.Topic, v *model.Video) error
	AddDocument(parent *model.Topic, d *model.Document) error
	AddHTML5App(parent *model.Topic, h *model.HTML5App) error
}

// Construct feeds ch to c.
func Construct(ch *model.Channel, c Consumer) error {
	if err := c.SetChannel(ch); err != nil {
		return err
	}
	return construct(nil, ch.Children, c)
}

func construct(parent *model.Topic, nodes []model.Node, c Consumer) error {
	for _, n := range nodes {
		var err error
		switch v := n.(type) {
		case *model.Topic:
			if err = c.AddTopic(parent, v); err == nil {
				err = construct(v, v.Children, c)
			}
		case *model.Video:
			err = c.AddVideo(parent, v)
		case *model.Document:
			err = c.AddDocument(parent, v)
		case *model.HTML5App:
			err = c.AddHTML5App(parent, v)
		default:
			err = fmt.Errorf("%w: %T", model.ErrUnknownNodeKind, n)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
