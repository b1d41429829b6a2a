package service

import "errors"

// Sentinel error kinds returned by the Service.
var (
	// ErrSourceUnconfigured is returned by Report when no upstream URL or fetcher is set.
	ErrSourceUnconfigured = errors.New("source not configured")
	// ErrFetch wraps any failure of the record source.
	ErrFetch = errors.New("fetch records failed")
)
