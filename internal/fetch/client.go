package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/blossomchef/internal/htmldoc"
	"github.com/nao1215/blossomchef/internal/webcache"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "blossomchef/1.0 (+https://blossoms.mit.edu)"

// ErrBodyTooLarge is returned when a response body exceeds the configured
// maximum size. Such responses are neither parsed nor cached.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError is returned when a server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Response is a fetched (or cached) HTTP response.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FromCache   bool
}

// Client performs cached HTTP GETs.
type Client struct {
	http         *http.Client
	cache        *webcache.Cache
	foreverHosts map[string]bool
	maxAge       time.Duration
	userAgent    string
	maxBodySize  int64
	limiter      *rate.Limiter
	logger       *slog.Logger

	requests  atomic.Int64
	cacheHits atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCache enables the read-through response cache.
func WithCache(cache *webcache.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithForeverHosts sets the hosts whose responses never expire.
func WithForeverHosts(hosts []string) Option {
	return func(c *Client) {
		c.foreverHosts = make(map[string]bool, len(hosts))
		for _, h := range hosts {
			c.foreverHosts[strings.ToLower(h)] = true
		}
	}
}

// WithMaxAge sets how long responses from other hosts stay valid.
// Zero disables caching for those hosts.
func WithMaxAge(d time.Duration) Option {
	return func(c *Client) {
		c.maxAge = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the largest accepted response body. Longer bodies
// fail with ErrBodyTooLarge.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		c.maxBodySize = n
	}
}

// WithDelay enforces a minimum interval between network requests.
// Cache hits are not throttled. Zero disables throttling.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{Timeout: 60 * time.Second},
		foreverHosts: map[string]bool{},
		userAgent:    DefaultUserAgent,
		maxBodySize:  10 * 1024 * 1024,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats holds request counters.
type Stats struct {
	Requests  int64
	CacheHits int64
}

// Stats returns the number of network requests and cache hits so far.
func (c *Client) Stats() Stats {
	return Stats{
		Requests:  c.requests.Load(),
		CacheHits: c.cacheHits.Load(),
	}
}

// Get fetches rawURL, consulting the cache first.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	if resp, ok := c.fromCache(ctx, rawURL); ok {
		return resp, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	c.requests.Add(1)
	c.logger.Debug("fetching", "url", rawURL)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: httpResp.StatusCode}
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, rawURL, c.maxBodySize)
	}

	resp := &Response{
		URL:         rawURL,
		StatusCode:  httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        body,
	}
	c.store(ctx, resp, httpResp.Header)
	return resp, nil
}

// Document fetches rawURL and parses it as HTML.
func (c *Client) Document(ctx context.Context, rawURL string) (htmldoc.Element, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return htmldoc.Element{}, err
	}
	doc, err := htmldoc.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return htmldoc.Element{}, fmt.Errorf("%s: %w", rawURL, err)
	}
	return doc, nil
}

func (c *Client) cacheable(rawURL string) (forever bool, ok bool) {
	if c.cache == nil {
		return false, false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, false
	}
	if c.foreverHosts[strings.ToLower(u.Hostname())] {
		return true, true
	}
	return false, c.maxAge > 0
}

func (c *Client) fromCache(ctx context.Context, rawURL string) (*Response, bool) {
	forever, ok := c.cacheable(rawURL)
	if !ok {
		return nil, false
	}
	entry, err := c.cache.Get(ctx, rawURL)
	if err != nil {
		c.logger.Warn("cache read failed", "url", rawURL, "error", err)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	if !forever && time.Since(entry.FetchedAt) > c.maxAge {
		return nil, false
	}
	c.cacheHits.Add(1)
	return &Response{
		URL:         entry.URL,
		StatusCode:  entry.StatusCode,
		ContentType: entry.ContentType,
		Body:        entry.Body,
		FromCache:   true,
	}, true
}

func (c *Client) store(ctx context.Context, resp *Response, header http.Header) {
	if _, ok := c.cacheable(resp.URL); !ok {
		return
	}
	err := c.cache.Put(ctx, &webcache.Entry{
		URL:         resp.URL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType,
		Headers:     header,
		Body:        resp.Body,
	})
	if err != nil {
		c.logger.Warn("cache write failed", "url", resp.URL, "error", err)
	}
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Resolve resolves ref against base. A protocol-relative ref ("//host/x")
// is given an explicit http scheme. ref is returned unchanged when either
// value does not parse.
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "//") {
		return "http:" + ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
