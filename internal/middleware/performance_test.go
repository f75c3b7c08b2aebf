// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func sample(route string, ms int64) *RequestSample {
	return &RequestSample{Route: route, Method: http.MethodGet, DurationMS: ms, StatusCode: 200, Timestamp: time.Now()}
}

func TestPerformanceMonitor_WindowSlides(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3, 0)
	for i := int64(1); i <= 5; i++ {
		pm.RecordRequest(sample("/api/v1/riders", i))
	}

	recent := pm.GetRecentSamples(10)
	if len(recent) != 3 {
		t.Fatalf("len(samples) = %d, want 3", len(recent))
	}
	if recent[0].DurationMS != 3 || recent[2].DurationMS != 5 {
		t.Errorf("window = %v, want durations 3..5", recent)
	}
	if got := pm.GetRecentSamples(1); len(got) != 1 || got[0].DurationMS != 5 {
		t.Errorf("GetRecentSamples(1) = %v", got)
	}
	if got := pm.GetRecentSamples(-1); len(got) != 0 {
		t.Errorf("GetRecentSamples(-1) = %v", got)
	}
}

func TestPerformanceMonitor_GetStats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100, 0)
	for _, ms := range []int64{40, 10, 30, 20, 50} {
		pm.RecordRequest(sample("/api/v1/riders", ms))
	}
	pm.RecordRequest(sample("/api/v1/stats", 7))

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}

	s := stats[0]
	if s.Endpoint != "GET /api/v1/riders" {
		t.Errorf("busiest endpoint = %q", s.Endpoint)
	}
	if s.RequestCount != 5 || s.AvgDuration != 30 || s.MinDuration != 10 || s.MaxDuration != 50 {
		t.Errorf("stats = %+v", s)
	}
	if s.P50Duration != 30 || s.P95Duration != 40 || s.P99Duration != 40 {
		t.Errorf("percentiles = %d/%d/%d, want 30/40/40", s.P50Duration, s.P95Duration, s.P99Duration)
	}
}

func TestPerformanceMonitor_SlowRequests(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, 100*time.Millisecond)
	pm.RecordRequest(sample("/api/v1/riders", 50))
	pm.RecordRequest(sample("/api/v1/riders/export", 250))
	pm.RecordRequest(sample("/api/v1/riders", 100))

	report := pm.Report()
	if report.WindowSize != 3 || report.ThresholdMS != 100 {
		t.Errorf("report = %+v", report)
	}
	if len(report.Slow) != 1 || report.Slow[0].Route != "/api/v1/riders/export" {
		t.Errorf("slow = %v, want only the export request", report.Slow)
	}
}

func TestPerformanceMonitor_SlowListBounded(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, time.Millisecond)
	for i := 0; i < maxSlowSamples+20; i++ {
		pm.RecordRequest(sample("/api/v1/riders", int64(10+i)))
	}
	report := pm.Report()
	if len(report.Slow) != maxSlowSamples {
		t.Errorf("len(slow) = %d, want %d", len(report.Slow), maxSlowSamples)
	}
	if report.Slow[0].DurationMS != 30 {
		t.Errorf("oldest kept slow sample = %d, want 30", report.Slow[0].DurationMS)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, 0)
	h := testRouter(pm.Middleware)

	for _, path := range []string{"/api/v1/values/Team", "/api/v1/values/Missing", "/nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	recent := pm.GetRecentSamples(3)
	want := []struct {
		route  string
		status int
	}{
		{"/api/v1/values/{column}", 200},
		{"/api/v1/values/{column}", 404},
		{unmatchedRoute, 404},
	}
	for i, w := range want {
		if recent[i].Route != w.route || recent[i].StatusCode != w.status {
			t.Errorf("sample %d = %s %d, want %s %d", i, recent[i].Route, recent[i].StatusCode, w.route, w.status)
		}
	}
}

func TestPerformanceMonitor_Concurrent(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(50, time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				pm.RecordRequest(sample("/api/v1/riders", int64(j)))
				_ = pm.Report()
			}
		}()
	}
	wg.Wait()

	if got := pm.Report().WindowSize; got != 50 {
		t.Errorf("WindowSize = %d, want 50", got)
	}
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("percentile(nil) = %d", got)
	}
	if got := percentile([]int64{1, 2, 3, 4}, 0.5); got != 2 {
		t.Errorf("percentile(p50) = %d, want 2", got)
	}
}
