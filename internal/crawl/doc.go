// Package crawl walks the per-language lesson listings of the site and
// produces the raw resource tree.
//
// The tree is built in two passes. The first pass reads each selected
// language listing, groups its lessons by topic (topics and titles sorted
// alphabetically) and attaches them as LessonRef leaves. The second pass
// opens every lesson page to read its cluster memberships: a lesson in N
// clusters moves under N Cluster nodes of its topic, a lesson without
// clusters stays a direct topic child, and clusters are ordered before
// lessons while discovery order is otherwise preserved.
package crawl
