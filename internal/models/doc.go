// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

/*
Package models defines the JSON shapes returned by the rider API.

Every endpoint wraps its payload in APIResponse:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 2, "dataset_version": 1}
	}

Errors use the same envelope with Status "error" and an APIError carrying a
stable code (VALIDATION_ERROR, INVALID_EXPRESSION, SOURCE_UNAVAILABLE, ...).

Rider rows are not a fixed struct: the CSV schema varies between exports, so
RidersResponse carries rows as maps keyed by column name together with the
column descriptions needed to render them.
*/
package models
