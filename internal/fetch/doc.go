// Package fetch is the explicit client context handed to every component
// that performs network I/O.
//
// A Client bundles the http.Client, the optional SQLite response cache and a
// politeness limiter. Every GET is read-through: a cached response is served
// without touching the network when its host is in the forever-cached set,
// or when it is younger than the configured maximum age. Only successful
// (2xx) responses are written to the cache.
//
// Requests are issued one at a time by the caller; the Client itself keeps
// no per-run state apart from counters.
package fetch
