// Package tree builds the content tree from the raw resource tree.
//
// The walk is depth-first and strictly sequential. Language nodes are
// transparent, so the topics of every language merge into one hierarchy.
// Topic and Cluster nodes are looked up by title under the current parent
// and reused when present. A LessonRef whose title already exists under
// the current parent is skipped without any side effect; otherwise the
// lesson is extracted (once per URL for the whole build) and expanded into
// a lesson folder holding its videos, transcripts, additional resources
// and teacher documents.
//
// Within a topic, cluster folders always precede lesson folders. Both keep
// their discovery order.
package tree
