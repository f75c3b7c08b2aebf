// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/cyclingdb/internal/loader"
	"github.com/tomtom215/cyclingdb/internal/search"
)

// Error codes for API responses.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidExpression  = "INVALID_EXPRESSION"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeSourceUnavailable  = "SOURCE_UNAVAILABLE"
	ErrCodeMalformedSource    = "MALFORMED_SOURCE"
	ErrCodeReloadThrottled    = "RELOAD_THROTTLED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// ErrNotReady is returned while no dataset has been loaded.
var ErrNotReady = errors.New("rider dataset not loaded")

// classifyError maps a domain error to an HTTP status and API error code.
func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, search.ErrInvalidExpression):
		return http.StatusBadRequest, ErrCodeInvalidExpression, err.Error()
	case errors.Is(err, loader.ErrReloadThrottled):
		return http.StatusTooManyRequests, ErrCodeReloadThrottled, "Reload requested too soon, try again later"
	case errors.Is(err, loader.ErrMalformedSource):
		return http.StatusServiceUnavailable, ErrCodeMalformedSource, "Rider CSV could not be parsed"
	case errors.Is(err, loader.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, ErrCodeSourceUnavailable, "Rider CSV could not be obtained (" + loader.Category(err) + ")"
	case errors.Is(err, ErrNotReady):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Rider dataset not loaded yet"
	default:
		return http.StatusInternalServerError, ErrCodeInternal, "Internal server error"
	}
}
