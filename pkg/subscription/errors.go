package subscription

import "errors"

var (
	// ErrStatusFetchFailed wraps any failure of the commercial-status query.
	ErrStatusFetchFailed = errors.New("subscription.status_fetch_failed")
	// ErrStaleResponse is returned when a result arrived for a superseded
	// resolution and was discarded.
	ErrStaleResponse = errors.New("subscription.stale_response")
)
