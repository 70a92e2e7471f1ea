// Package pipeline runs the chef stages in sequence.
//
// A Run carries the trees between steps. Each step can also start from the
// artifact the previous stage persisted, so stages can be run separately:
//
//	crawl   -> raw_resource_tree.json
//	scrape  -> content_tree.json (overrides applied by the patch step)
//	prune   -> content_tree_full.json backup, content_tree.json truncated
//	channel -> validation and the channel summary
package pipeline
