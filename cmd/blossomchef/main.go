// Package main provides the entry point for the blossomchef CLI.
//
// blossomchef crawls the MIT Blossoms video lesson site and builds a
// multilingual content tree ready for upload to a content server.
//
// Usage:
//
//	blossomchef run --lang English --lang Arabic
//	blossomchef run --stage scrape --stage channel --pruned
//	blossomchef tree
//
// See --help for all available options.
package main

func main() {
	Execute()
}
