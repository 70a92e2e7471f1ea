package webcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "a", "b")
		c, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer c.Close()

		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("cache file was not created: %v", err)
		}
	})

	t.Run("missing database without create fails", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing cache")
		}
	})
}

func TestPutGet(t *testing.T) {
	t.Parallel()

	c := setupTestCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "https://blossoms.mit.edu/missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Fatal("expected nil entry for cache miss")
	}

	entry := &Entry{
		URL:         "https://blossoms.mit.edu/videos/lessons/x",
		StatusCode:  200,
		ContentType: "text/html",
		Headers:     map[string][]string{"Etag": {"abc"}},
		Body:        []byte("<html></html>"),
	}
	if err := c.Put(ctx, entry); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err = c.Get(ctx, entry.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected cached entry")
	}
	if string(got.Body) != "<html></html>" || got.StatusCode != 200 || got.ContentType != "text/html" {
		t.Errorf("Get() = %+v", got)
	}
	if got.Headers["Etag"][0] != "abc" {
		t.Errorf("headers = %v", got.Headers)
	}
	if got.FetchedAt.IsZero() {
		t.Error("FetchedAt not restored")
	}

	entry.Body = []byte("updated")
	if err := c.Put(ctx, entry); err != nil {
		t.Fatalf("Put() update error = %v", err)
	}
	got, _ = c.Get(ctx, entry.URL)
	if string(got.Body) != "updated" {
		t.Errorf("Body after update = %q", got.Body)
	}

	n, err := c.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1", n, err)
	}

	if err := c.Delete(ctx, entry.URL); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := c.Get(ctx, entry.URL); got != nil {
		t.Error("entry survived Delete()")
	}
}

func TestIsFresh(t *testing.T) {
	t.Parallel()

	c := setupTestCache(t)
	ctx := context.Background()

	old := &Entry{URL: "u-old", StatusCode: 200, FetchedAt: time.Now().Add(-48 * time.Hour)}
	recent := &Entry{URL: "u-new", StatusCode: 200}
	for _, e := range []*Entry{old, recent} {
		if err := c.Put(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		url  string
		want bool
	}{
		{"u-old", false},
		{"u-new", true},
		{"u-none", false},
	}
	for _, tt := range tests {
		got, err := c.IsFresh(ctx, tt.url, 24*time.Hour)
		if err != nil {
			t.Fatalf("IsFresh(%q) error = %v", tt.url, err)
		}
		if got != tt.want {
			t.Errorf("IsFresh(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
