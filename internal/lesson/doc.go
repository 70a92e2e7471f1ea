// Package lesson turns one lesson page into a Record.
//
// Only the identity block (div.node-lesson with an id of the form
// "node-N") is required. Every other block of the page is optional and a
// missing block yields an empty field. Video variants are not looked up
// during extraction: Record.VideoFor follows the player and embed pages the
// first time a language is requested and remembers the candidates for the
// remaining languages.
package lesson
