// Package htmldoc is the HTML document interface used by the crawl and
// lesson extraction code.
//
// An Element wraps one node of a parsed page. Lookups take CSS selectors
// ("div.node-lesson", "div#lesson-detail-tab-transcript", "td.videolist-name a")
// and come in three flavours:
//
//   - Find returns the first descendant matching the selector,
//   - FindAll returns every matching descendant in document order,
//   - FindNext returns the nearest element after this one in document order,
//     which covers descendants, following siblings and the siblings of
//     ancestors, in that order.
//
// A missing element is represented by an Element whose Exists method
// returns false. All methods are safe to call on a missing element, which
// keeps optional-block handling in the extractors free of nil checks.
package htmldoc
