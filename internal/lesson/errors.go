package lesson

import "errors"

var (
	// ErrMissingLessonID is returned when a page has no lesson identity block.
	// The page most likely did not load as a lesson page.
	ErrMissingLessonID = errors.New("lesson identity block not found")

	// ErrMalformedLessonID is returned when the identity marker is not of the
	// form "node-<integer>".
	ErrMalformedLessonID = errors.New("malformed lesson identity marker")
)
