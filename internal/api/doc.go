// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

/*
Package api serves the rider database over HTTP using the chi router.

Every JSON endpoint answers with the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "dataset_version": 1}}
	{"status": "error", "data": null, "error": {"code": "VALIDATION_ERROR", "message": "..."}}

Endpoints:

	GET  /api/v1/health              dataset state, last load, breaker state
	GET  /api/v1/health/live         liveness
	GET  /api/v1/health/ready        503 until a dataset is loaded
	GET  /api/v1/riders              filtered, paginated riders plus stats
	GET  /api/v1/riders/export       filtered riders as filtered_riders.csv
	GET  /api/v1/riders/suggest      rider name autocomplete
	GET  /api/v1/stats               overall and filtered statistics
	GET  /api/v1/columns             schema with display labels
	GET  /api/v1/values/{column}     distinct values of a column
	GET  /api/v1/specializations     accepted specialization categories
	POST /api/v1/admin/reload        reload the rider CSV (admin token)
	GET  /api/v1/admin/performance   latency report (admin token)
	GET  /metrics                    Prometheus

# Dataset Lifecycle

The Handler holds an immutable snapshot of the engine. Load publishes the first
one; ReloadDataset swaps in a new one and clears the search cache. A failed
reload leaves the previous snapshot serving. Each request reads the snapshot
once, so a reload never mixes data from two loads within one response.

# Search Cache

Filtered views are cached by dataset version and filters. Pages and stats are
computed from the cached view, so paging through results runs the filter
chain once.
*/
package api
