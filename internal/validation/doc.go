// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by all handlers. It reports field
// names using the `query` tag (falling back to `json`), so error messages
// name the parameter the client sent rather than the Go field.
//
// # Custom Tags
//
//   - specialization: empty, or a category name or synonym known to the search engine
//   - printable: no control characters
//
// # Range Checks
//
// Requests with min/max pairs implement RangeChecker. ValidateStruct calls it
// after the tag checks pass and reports each inverted pair with tag "range".
//
// # Usage
//
//	req := RiderSearchRequest{...}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
