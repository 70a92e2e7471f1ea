// Package lang normalizes the language names used by the site's listing
// pages and maps them to BCP 47 codes for the content tree.
package lang

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// supported lists the language variants offered by the site, in the order
// they appear on the by-language index.
var supported = []struct {
	name string
	tag  language.Tag
}{
	{"Arabic", language.Arabic},
	{"Chinese", language.Chinese},
	{"English", language.English},
	{"Farsi", language.Persian},
	{"Hindi", language.Hindi},
	{"Japanese", language.Japanese},
	{"Kannada", language.Make("kn")},
	{"Korean", language.Korean},
	{"Malay", language.Malay},
	{"Portuguese", language.Portuguese},
	{"Spanish", language.Spanish},
	{"Thai", language.Thai},
	{"Urdu", language.Urdu},
}

var titleCaser = cases.Title(language.English)

// Supported returns the names of all supported languages.
func Supported() []string {
	names := make([]string, len(supported))
	for i, s := range supported {
		names[i] = s.name
	}
	return names
}

// Normalize converts a user-supplied language name to the capitalization
// used on the site ("arabic" -> "Arabic").
func Normalize(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

// NormalizeAll normalizes names, drops empty entries and removes duplicates
// while keeping the first occurrence order.
func NormalizeAll(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		n := Normalize(name)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// IsSupported reports whether name (after normalization) is a supported language.
func IsSupported(name string) bool {
	_, ok := lookup(Normalize(name))
	return ok
}

// Code returns the BCP 47 code for a language name, e.g. "ar" for "Arabic".
// Unknown names fall back to parsing name as a language tag and return ""
// when that fails too.
func Code(name string) string {
	if tag, ok := lookup(Normalize(name)); ok {
		return tag.String()
	}
	tag, err := language.Parse(strings.TrimSpace(name))
	if err != nil {
		return ""
	}
	return tag.String()
}

func lookup(name string) (language.Tag, bool) {
	for _, s := range supported {
		if s.name == name {
			return s.tag, true
		}
	}
	return language.Und, false
}
