// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/cyclingdb/internal/logging"
)

// RequestSample is one served request.
type RequestSample struct {
	Route      string    `json:"route"`
	Method     string    `json:"method"`
	DurationMS int64     `json:"duration_ms"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// EndpointStats aggregates the samples of one method and route.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	AvgDuration  float64 `json:"avg_duration_ms"`
	P50Duration  int64   `json:"p50_duration_ms"`
	P95Duration  int64   `json:"p95_duration_ms"`
	P99Duration  int64   `json:"p99_duration_ms"`
	MinDuration  int64   `json:"min_duration_ms"`
	MaxDuration  int64   `json:"max_duration_ms"`
}

// PerformanceReport is served by GET /api/v1/admin/performance.
type PerformanceReport struct {
	WindowSize  int             `json:"window_size"`
	ThresholdMS int64           `json:"slow_threshold_ms"`
	Endpoints   []EndpointStats `json:"endpoints"`
	Slow        []RequestSample `json:"slow_requests"`
}

// maxSlowSamples bounds the slow request list independently of the window.
const maxSlowSamples = 50

// PerformanceMonitor keeps a sliding window of recent requests and the most
// recent slow ones.
type PerformanceMonitor struct {
	mu         sync.RWMutex
	samples    []RequestSample
	maxSamples int
	slow       []RequestSample
	threshold  time.Duration
}

// NewPerformanceMonitor creates a monitor holding up to maxSamples requests.
// Requests slower than threshold are logged; zero disables slow tracking.
func NewPerformanceMonitor(maxSamples int, threshold time.Duration) *PerformanceMonitor {
	if maxSamples < 1 {
		maxSamples = 1
	}
	return &PerformanceMonitor{
		samples:    make([]RequestSample, 0, maxSamples),
		maxSamples: maxSamples,
		threshold:  threshold,
	}
}

// RecordRequest adds a sample to the window.
func (pm *PerformanceMonitor) RecordRequest(s *RequestSample) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.samples = append(pm.samples, *s)
	if len(pm.samples) > pm.maxSamples {
		pm.samples = pm.samples[1:]
	}

	if pm.threshold > 0 && s.DurationMS > pm.threshold.Milliseconds() {
		pm.slow = append(pm.slow, *s)
		if len(pm.slow) > maxSlowSamples {
			pm.slow = pm.slow[1:]
		}
	}
}

// GetStats returns per-endpoint statistics, busiest first.
func (pm *PerformanceMonitor) GetStats() []EndpointStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	byEndpoint := make(map[string][]int64)
	for _, s := range pm.samples {
		key := s.Method + " " + s.Route
		byEndpoint[key] = append(byEndpoint[key], s.DurationMS)
	}

	stats := make([]EndpointStats, 0, len(byEndpoint))
	for endpoint, durations := range byEndpoint {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

		var sum int64
		for _, d := range durations {
			sum += d
		}

		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(durations)),
			AvgDuration:  float64(sum) / float64(len(durations)),
			P50Duration:  percentile(durations, 0.50),
			P95Duration:  percentile(durations, 0.95),
			P99Duration:  percentile(durations, 0.99),
			MinDuration:  durations[0],
			MaxDuration:  durations[len(durations)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})

	return stats
}

// GetRecentSamples returns the most recent n samples, oldest first.
func (pm *PerformanceMonitor) GetRecentSamples(n int) []RequestSample {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	if n > len(pm.samples) {
		n = len(pm.samples)
	}
	if n < 0 {
		n = 0
	}

	recent := make([]RequestSample, n)
	copy(recent, pm.samples[len(pm.samples)-n:])
	return recent
}

// Report snapshots the monitor.
func (pm *PerformanceMonitor) Report() PerformanceReport {
	endpoints := pm.GetStats()

	pm.mu.RLock()
	defer pm.mu.RUnlock()

	slow := make([]RequestSample, len(pm.slow))
	copy(slow, pm.slow)

	return PerformanceReport{
		WindowSize:  len(pm.samples),
		ThresholdMS: pm.threshold.Milliseconds(),
		Endpoints:   endpoints,
		Slow:        slow,
	}
}

// Middleware records every request served by next.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)

		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		route := RoutePattern(r)

		pm.RecordRequest(&RequestSample{
			Route:      route,
			Method:     r.Method,
			DurationMS: elapsed.Milliseconds(),
			StatusCode: sw.status,
			Timestamp:  start,
		})

		if pm.threshold > 0 && elapsed > pm.threshold {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Int64("duration_ms", elapsed.Milliseconds()).
				Int64("threshold_ms", pm.threshold.Milliseconds()).
				Msg("Slow request detected")
		}
	})
}

// percentile picks the nearest-rank value from a sorted slice.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}
