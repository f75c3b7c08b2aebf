// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

// Package metrics declares the Prometheus collectors exported on /metrics.
//
// Collectors are registered on the default registry at init through promauto.
// Callers use the Record* helpers rather than touching collectors directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Dataset Load Metrics
	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riders_dataset_loads_total",
			Help: "Total number of rider dataset loads by origin and result",
		},
		[]string{"origin", "result"}, // origin: "local", "remote"; result: "success" or an error category
	)

	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "riders_dataset_load_duration_seconds",
			Help:    "Time spent reading, parsing and preparing the rider dataset",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "riders_dataset_rows",
			Help: "Number of rider records in the active dataset",
		},
	)

	DatasetColumns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "riders_dataset_columns",
			Help: "Number of columns in the active dataset",
		},
	)

	DatasetSchemaWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riders_dataset_schema_warnings_total",
			Help: "Expected columns missing from a loaded dataset",
		},
		[]string{"column"},
	)

	DatasetLastLoad = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "riders_dataset_last_load_timestamp_seconds",
			Help: "Unix timestamp of the last successful dataset load",
		},
	)

	DatasetReloadsThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riders_dataset_reloads_throttled_total",
			Help: "Manual reloads rejected by the reload rate limiter",
		},
	)

	// Search Metrics
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "riders_search_duration_seconds",
			Help:    "Time to apply the search filter chain",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "riders_search_results",
			Help:    "Number of riders returned by a search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)

	SearchFiltersApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riders_search_filters_applied_total",
			Help: "Filters that narrowed a search, by filter name",
		},
		[]string{"filter"},
	)

	SearchExpressionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riders_search_expression_errors_total",
			Help: "Search expressions rejected at compile time",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDatasetLoad records one load attempt. result is "success" or the
// error category reported by the loader.
func RecordDatasetLoad(origin, result string, duration time.Duration, rows, cols int) {
	DatasetLoads.WithLabelValues(origin, result).Inc()
	DatasetLoadDuration.Observe(duration.Seconds())
	if result != "success" {
		return
	}
	DatasetRows.Set(float64(rows))
	DatasetColumns.Set(float64(cols))
	DatasetLastLoad.Set(float64(time.Now().Unix()))
}

// RecordSchemaWarning counts a missing expected column.
func RecordSchemaWarning(column string) {
	DatasetSchemaWarnings.WithLabelValues(column).Inc()
}

// RecordSearch records one completed search.
func RecordSearch(duration time.Duration, results int, applied []string) {
	SearchDuration.Observe(duration.Seconds())
	SearchResults.Observe(float64(results))
	for _, f := range applied {
		SearchFiltersApplied.WithLabelValues(f).Inc()
	}
}

// RecordCacheAccess records a hit or miss for the named cache.
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}
