// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

/*
Package middleware provides HTTP middleware shared by the API router.

All middleware uses the func(http.Handler) http.Handler shape so it can be
installed with chi's Router.Use.

Key Components:

  - RequestID: reuses or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge per route
  - PerformanceMonitor: sliding window of latencies with percentiles and a
    list of slow requests, served by the admin performance endpoint
  - Compression: gzip via klauspost/compress for clients that accept it

Metrics and performance samples are labelled with the chi route pattern, so
/api/v1/values/Team and /api/v1/values/Age share the label
/api/v1/values/{column}. Requests no route matched are labelled "unmatched".

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)
	r.Use(middleware.Compression)
*/
package middleware
