package model

import "errors"

var (
	// ErrUnknownNodeKind is returned when a persisted tree contains a node
	// kind tag that this version does not understand. It signals a format
	// change upstream and is fatal for the run.
	ErrUnknownNodeKind = errors.New("unknown node kind")

	// ErrUnknownFileType is returned when a persisted content tree contains
	// a file_type tag that this version does not understand.
	ErrUnknownFileType = errors.New("unknown file type")

	// ErrUnexpectedRoot is returned when the root object of a persisted tree
	// carries the wrong kind tag.
	ErrUnexpectedRoot = errors.New("unexpected root kind")
)
