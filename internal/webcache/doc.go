// Package webcache is the on-disk response cache used by the fetch client.
//
// Responses are stored in a single SQLite database (modernc.org/sqlite, no
// CGO) keyed by URL. The cache itself has no expiry policy: the caller
// decides whether an entry is still usable through Entry.FetchedAt or
// IsFresh. Hosts whose content never changes are cached forever by the
// fetch client, everything else is revalidated after a configurable age.
package webcache
