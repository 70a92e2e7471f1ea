package crawl

import (
	"sort"
	"strings"

	"github.com/nao1215/blossomchef/internal/fetch"
	"github.com/nao1215/blossomchef/internal/htmldoc"
)

// LanguageLink is one entry of the by-language index page.
type LanguageLink struct {
	Name string
	URL  string
}

// Listing is one lesson cell of a language listing page.
type Listing struct {
	Topic string
	Title string
	URL   string
}

// TopicGroup holds the lessons of one topic.
type TopicGroup struct {
	Topic   string
	Lessons []Listing
}

// parseLanguages reads div#main > first div.item-list > following ul > li a.
func parseLanguages(doc htmldoc.Element, baseURL string) []LanguageLink {
	list := doc.Find("div#main").Find("div.item-list").FindNext("ul")
	var out []LanguageLink
	for _, a := range list.FindAll("li a") {
		href, ok := a.Attr("href")
		if !ok {
			continue
		}
		out = append(out, LanguageLink{
			Name: strings.TrimSpace(a.Text()),
			URL:  fetch.Resolve(baseURL+"/", href),
		})
	}
	return out
}

// parseListing reads the lesson table of a language listing page. Empty
// cells (the table is padded to full rows) are skipped.
func parseListing(doc htmldoc.Element, baseURL string) []Listing {
	var out []Listing
	for _, td := range doc.Find("div#main").Find("div.view-content").Find("table").FindAll("td") {
		title := td.Find("div.views-field-title a")
		href, ok := title.Attr("href")
		if !ok {
			continue
		}
		out = append(out, Listing{
			Topic: strings.TrimSpace(td.Find("div.views-field-field-topic-value h4").Text()),
			Title: strings.TrimSpace(title.Text()),
			URL:   fetch.Resolve(baseURL+"/", href),
		})
	}
	return out
}

// parseClusters returns the cluster names of a lesson page in page order.
func parseClusters(doc htmldoc.Element) []string {
	var out []string
	for _, a := range doc.Find("p.cluster-lesson-page-display").FindAll("a") {
		if name := strings.TrimSpace(a.Text()); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// GroupByTopic sorts lessons by topic, groups equal topics, and sorts each
// group by title. Both sorts are stable, so equal titles keep listing order.
func GroupByTopic(lessons []Listing) []TopicGroup {
	sorted := make([]Listing, len(lessons))
	copy(sorted, lessons)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Topic < sorted[j].Topic
	})

	var groups []TopicGroup
	for _, l := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Topic == l.Topic {
			groups[n-1].Lessons = append(groups[n-1].Lessons, l)
			continue
		}
		groups = append(groups, TopicGroup{Topic: l.Topic, Lessons: []Listing{l}})
	}
	for i := range groups {
		lessons := groups[i].Lessons
		sort.SliceStable(lessons, func(a, b int) bool {
			return lessons[a].Title < lessons[b].Title
		})
	}
	return groups
}
