package webcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the name of the database file inside the cache directory.
const FileName = "webcache.db"

// Cache stores fetched responses in SQLite.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Options configures Cache behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default cache options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a cache in dir.
func Open(dir string, opts Options) (*Cache, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("cache not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	c := &Cache{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := c.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return c, nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.dbPath
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		url TEXT PRIMARY KEY,
		status_code INTEGER NOT NULL,
		content_type TEXT,
		headers TEXT,
		body BLOB,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_responses_fetched ON responses(fetched_at);
	`
	_, err := c.db.ExecContext(context.Background(), schema)
	return err
}

// Entry is one cached response.
type Entry struct {
	URL         string
	StatusCode  int
	ContentType string
	Headers     map[string][]string
	Body        []byte
	FetchedAt   time.Time
}

// Put inserts or replaces the entry for e.URL. A zero FetchedAt is set to
// the current time.
func (c *Cache) Put(ctx context.Context, e *Entry) error {
	headersJSON, err := json.Marshal(e.Headers)
	if err != nil {
		return fmt.Errorf("failed to serialize headers: %w", err)
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO responses (url, status_code, content_type, headers, body, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		headers = excluded.headers,
		body = excluded.body,
		fetched_at = excluded.fetched_at
	`
	_, err = c.db.ExecContext(ctx, query,
		e.URL,
		e.StatusCode,
		e.ContentType,
		string(headersJSON),
		e.Body,
		e.FetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to store response for %s: %w", e.URL, err)
	}
	return nil
}

// Get returns the entry for url, or nil when it is not cached.
func (c *Cache) Get(ctx context.Context, url string) (*Entry, error) {
	query := `
	SELECT url, status_code, content_type, headers, body, fetched_at
	FROM responses
	WHERE url = ?
	`

	var (
		e           Entry
		contentType sql.NullString
		headersJSON sql.NullString
		fetchedAt   string
	)
	err := c.db.QueryRowContext(ctx, query, url).Scan(
		&e.URL,
		&e.StatusCode,
		&contentType,
		&headersJSON,
		&e.Body,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached response for %s: %w", url, err)
	}

	e.ContentType = contentType.String
	e.FetchedAt = parseTimestamp(fetchedAt)
	if headersJSON.Valid && headersJSON.String != "" {
		if err := json.Unmarshal([]byte(headersJSON.String), &e.Headers); err != nil {
			return nil, fmt.Errorf("failed to parse cached headers: %w", err)
		}
	}
	return &e, nil
}

// IsFresh reports whether url was cached within maxAge.
func (c *Cache) IsFresh(ctx context.Context, url string, maxAge time.Duration) (bool, error) {
	e, err := c.Get(ctx, url)
	if err != nil || e == nil {
		return false, err
	}
	return time.Since(e.FetchedAt) <= maxAge, nil
}

// Delete removes the entry for url.
func (c *Cache) Delete(ctx context.Context, url string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE url = ?`, url); err != nil {
		return fmt.Errorf("failed to delete cached response for %s: %w", url, err)
	}
	return nil
}

// Count returns the number of cached responses.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cached responses: %w", err)
	}
	return n, nil
}

var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
