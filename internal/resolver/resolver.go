// Package resolver picks the one video variant of a lesson that best fits a
// requested language.
//
// Lesson pages label their video variants loosely ("English",
// "Arabic Voice-over", "English-Urdu Subtitles", ...). A candidate matches a
// language when its label contains the language name. Among the matches the
// most specific one wins:
//
//	exact label  >  "<lang> Voice-over"  >  "<lang> Subtitles"  >  any other match
//
// Ties keep the first match in candidate order.
package resolver

import "strings"

// Candidate is one labelled video URL.
type Candidate struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Source lists candidates on demand.
type Source func() ([]Candidate, error)

// Static returns a Source that always yields cands.
func Static(cands []Candidate) Source {
	return func() ([]Candidate, error) {
		return cands, nil
	}
}

const (
	rankContains = iota
	rankSubtitles
	rankVoiceOver
	rankExact
)

// NormalizeLabel collapses labels made of two identical halves, which the
// site produces for doubled subtitle entries ("ArabicArabic" -> "Arabic").
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if len(label) == 0 || len(label)%2 != 0 {
		return label
	}
	half := len(label) / 2
	if label[:half] == label[half:] {
		return label[:half]
	}
	return label
}

func rank(label, language string) int {
	switch {
	case label == language:
		return rankExact
	case strings.Contains(label, language+" Voice-over"):
		return rankVoiceOver
	case strings.Contains(label, language+" Subtitles"):
		return rankSubtitles
	default:
		return rankContains
	}
}

// Matches returns the candidates whose normalized label contains language,
// in their original order. Returned labels are normalized.
func Matches(cands []Candidate, language string) []Candidate {
	if language == "" {
		return nil
	}
	var out []Candidate
	for _, c := range cands {
		label := NormalizeLabel(c.Label)
		if strings.Contains(label, language) {
			out = append(out, Candidate{Label: label, URL: c.URL})
		}
	}
	return out
}

// Pick returns the most specific candidate for language. The second result
// is false when no candidate matches.
func Pick(cands []Candidate, language string) (Candidate, bool) {
	var (
		best  Candidate
		found bool
	)
	for _, c := range Matches(cands, language) {
		if !found || rank(c.Label, language) > rank(best.Label, language) {
			best = c
			found = true
		}
	}
	return best, found
}

// Resolve picks from primary, consulting fallback only when primary has no
// match at all for language. A nil fallback is allowed. The second result is
// false when neither source has a match; that is not an error.
func Resolve(primary, fallback Source, language string) (Candidate, bool, error) {
	cands, err := primary()
	if err != nil {
		return Candidate{}, false, err
	}
	if len(Matches(cands, language)) == 0 && fallback != nil {
		if cands, err = fallback(); err != nil {
			return Candidate{}, false, err
		}
	}
	c, ok := Pick(cands, language)
	return c, ok, nil
}
