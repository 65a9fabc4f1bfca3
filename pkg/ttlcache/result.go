package ttlcache

import "time"

// Status tells whether a payload is within its TTL
type Status string

const (
	StatusFresh       Status = "fresh"
	StatusStale       Status = "stale"
	StatusUnavailable Status = "unavailable"
)

// Source tells where a payload came from
type Source string

const (
	SourceAPI   Source = "api"
	SourceCache Source = "cache"
	SourceNone  Source = "none"
)

// Result is the outcome of a cache-backed read.
//
//	Fresh       payload within TTL, either a cache hit or just fetched
//	Stale       refresh failed, payload is the last stored one; Err holds the fetch error
//	Unavailable refresh failed and nothing was stored; Err wraps ErrNoDataAvailable
type Result[V any] struct {
	Status    Status
	Source    Source
	Payload   V
	FetchedAt time.Time
	Err       error
}

// HasPayload returns true for fresh and stale results
func (r Result[V]) HasPayload() bool {
	return r.Status == StatusFresh || r.Status == StatusStale
}

func (r Result[V]) IsFresh() bool {
	return r.Status == StatusFresh
}

func (r Result[V]) IsStale() bool {
	return r.Status == StatusStale
}

func (r Result[V]) IsUnavailable() bool {
	return r.Status == StatusUnavailable
}
