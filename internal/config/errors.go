package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoLanguages is returned when no language is selected.
	ErrNoLanguages = errors.New("no languages selected")

	// ErrInvalidStage is returned for a pipeline stage other than crawl,
	// scrape, channel or all.
	ErrInvalidStage = errors.New("invalid stage: must be one of crawl, scrape, channel, all")

	// ErrNoStages is returned when no stage is selected.
	ErrNoStages = errors.New("no stages selected")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidCacheMaxAge is returned when the cache max age is negative.
	ErrInvalidCacheMaxAge = errors.New("invalid cache max age: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrNoBaseURL is returned when the site base URL is empty.
	ErrNoBaseURL = errors.New("base URL must not be empty")

	// ErrNoDataDir is returned when the data directory is empty.
	ErrNoDataDir = errors.New("data directory must not be empty")

	// ErrIncompleteChannel is returned when the channel source domain,
	// source id or title is empty.
	ErrIncompleteChannel = errors.New("channel source domain, source id and title must be set")
)
