// Package report renders what a chef run produced.
//
// A Summary is computed from a content tree by replaying it through the
// channel package's Counter and Validator. Writers render it:
//   - SimpleWriter: plain text for the terminal, plus an outline of the tree
//   - MarkdownWriter: a Markdown page with tables and a mermaid pie chart
//   - JSONWriter: JSON, also used for the persisted tree artifacts
//
// Writers implement the Writer interface and compose through MultiWriter.
package report
