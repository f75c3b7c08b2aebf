// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package loader

import "errors"

var (
	// ErrSourceUnavailable means no CSV could be obtained. It is always joined
	// with ErrNetwork, ErrSave or ErrLocalRead to say why.
	ErrSourceUnavailable = errors.New("rider source unavailable")

	// ErrNetwork covers download failures: transport errors, timeouts,
	// non-2xx responses and an open circuit breaker.
	ErrNetwork = errors.New("network error downloading rider CSV")

	// ErrSave means the download succeeded but the local copy could not be written.
	ErrSave = errors.New("error saving rider CSV")

	// ErrLocalRead means the local copy exists but could not be read.
	ErrLocalRead = errors.New("error reading local rider CSV")

	// ErrMalformedSource means the CSV was obtained but is empty or not parseable.
	ErrMalformedSource = errors.New("malformed rider CSV")

	// ErrReloadThrottled is returned by Memo.Reload when reloads come too fast.
	ErrReloadThrottled = errors.New("dataset reload throttled")
)

// Category maps a load error to a short label for metrics and API error codes.
func Category(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrSave):
		return "save"
	case errors.Is(err, ErrLocalRead):
		return "local_read"
	case errors.Is(err, ErrMalformedSource):
		return "malformed"
	case errors.Is(err, ErrReloadThrottled):
		return "throttled"
	case errors.Is(err, ErrSourceUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
