// Package model defines the two trees that flow through blossomchef.
//
// The raw resource tree (ResourceTree) is produced by the crawl step. It
// mirrors the site structure: Language nodes hold Topic nodes, which hold
// Cluster nodes and LessonRef leaves.
//
// The content tree (Channel) is produced by the scrape step. It holds
// Topic containers and the Video, Document and HTML5App leaves consumed by
// the channel step.
//
// Both trees are closed sum types: every node kind is a concrete struct
// implementing an interface with an unexported marker method, so consumers
// handle them with exhaustive type switches. The JSON codec in this package
// rejects unknown kind tags with ErrUnknownNodeKind and ErrUnknownFileType.
package model
