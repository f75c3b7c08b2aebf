// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package models

import (
	"time"
)

// APIResponse is the envelope every JSON endpoint returns.
//
// Status is "success" or "error". On error Data is null and Error is set.
//
//	{
//	  "status": "success",
//	  "data": {"riders": [...], "pagination": {...}},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how the response was produced.
//
// DatasetVersion increases each time the rider CSV is reloaded, so clients can
// tell when cached filter options are stale.
type Metadata struct {
	Timestamp      time.Time `json:"timestamp"`
	QueryTimeMS    int64     `json:"query_time_ms,omitempty"`
	Cached         bool      `json:"cached,omitempty"`
	DatasetVersion uint64    `json:"dataset_version,omitempty"`
}

// APIError is a machine-readable code plus a message for humans.
//
// Codes:
//   - VALIDATION_ERROR: bad query parameters
//   - INVALID_EXPRESSION: the expr filter did not compile
//   - NOT_FOUND: unknown column
//   - UNAUTHORIZED: missing or wrong admin token
//   - SOURCE_UNAVAILABLE: the rider CSV could not be obtained
//   - MALFORMED_SOURCE: the rider CSV could not be parsed
//   - RELOAD_THROTTLED: reload requested too soon after the last one
//   - SERVICE_UNAVAILABLE: no dataset loaded yet
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo describes one offset/limit page of a result.
type PaginationInfo struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}
