package htmldoc

import (
	"strings"
	"testing"
)

const page = `<html><body>
<div id="main">
  <h2>Languages</h2>
  <div class="item-list"><h3>All</h3></div>
  <ul><li><a href="/videos/by_language/English">English</a></li><li><a href="/videos/by_language/Urdu">Urdu</a></li></ul>
</div>
<div class="lesson-resources-block"><p>See <a href="/x">this link</a> and <b>that</b>.</p></div>
</body></html>`

func TestFind(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	t.Run("first match", func(t *testing.T) {
		t.Parallel()
		a := doc.Find("div#main a")
		if !a.Exists() {
			t.Fatal("expected anchor to exist")
		}
		if got := a.Text(); got != "English" {
			t.Errorf("Text() = %q, want %q", got, "English")
		}
		if got := a.AttrOr("href", ""); got != "/videos/by_language/English" {
			t.Errorf("href = %q", got)
		}
	})

	t.Run("all matches", func(t *testing.T) {
		t.Parallel()
		got := doc.FindAll("div#main ul li a")
		if len(got) != 2 {
			t.Fatalf("FindAll() = %d elements, want 2", len(got))
		}
		if got[1].Text() != "Urdu" {
			t.Errorf("second anchor = %q, want Urdu", got[1].Text())
		}
	})

	t.Run("missing element is safe", func(t *testing.T) {
		t.Parallel()
		missing := doc.Find("div.nothing-here")
		if missing.Exists() {
			t.Fatal("expected missing element")
		}
		if missing.Find("a").Exists() || missing.Text() != "" || len(missing.FindAll("a")) != 0 {
			t.Error("lookups on missing element should be empty")
		}
		if _, ok := missing.Attr("id"); ok {
			t.Error("Attr() on missing element reported present")
		}
	})
}

func TestFindNext(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	list := doc.Find("div.item-list").FindNext("ul")
	if !list.Exists() {
		t.Fatal("expected following list")
	}
	if n := len(list.FindAll("li")); n != 2 {
		t.Errorf("list items = %d, want 2", n)
	}

	if doc.Find("div.lesson-resources-block").FindNext("ul").Exists() {
		t.Error("FindNext() should not look backwards")
	}
}

func TestWithoutLinks(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	block := doc.Find("div.lesson-resources-block")
	stripped := block.WithoutLinks()

	if stripped.Find("a").Exists() {
		t.Error("anchor survived WithoutLinks()")
	}
	if !strings.Contains(stripped.Text(), "this link") {
		t.Errorf("link text lost: %q", stripped.Text())
	}
	if !block.Find("a").Exists() {
		t.Error("WithoutLinks() modified the source document")
	}
}

func TestStandalone(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	out, err := Standalone(doc.Find("div.lesson-resources-block").WithoutLinks())
	if err != nil {
		t.Fatalf("Standalone() error = %v", err)
	}
	got := string(out)
	for _, want := range []string{"<!DOCTYPE html>", "<body>", "lesson-resources-block", "<b>that</b>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Standalone() missing %q in %s", want, got)
		}
	}

	again, err := Standalone(doc.Find("div.lesson-resources-block").WithoutLinks())
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != got {
		t.Error("Standalone() is not deterministic")
	}
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(`<div class="lesson-summary-block"><p>Hello <strong>world</strong></p></div>`)
	if err != nil {
		t.Fatal(err)
	}
	md, err := doc.Find("div.lesson-summary-block").Markdown()
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	if !strings.Contains(md, "Hello") || !strings.Contains(md, "world") {
		t.Errorf("Markdown() = %q", md)
	}
}
