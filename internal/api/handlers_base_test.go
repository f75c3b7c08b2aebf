// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-gota/gota/series"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cyclingdb/internal/config"
	"github.com/tomtom215/cyclingdb/internal/dataset"
	"github.com/tomtom215/cyclingdb/internal/loader"
	"github.com/tomtom215/cyclingdb/internal/middleware"
)

const testAdminToken = "s3cret"

// stubSource serves a fixed dataset. Loads after the first fail with
// failAfterFirst when it is set.
type stubSource struct {
	mu             sync.Mutex
	calls          int
	ds             *dataset.Dataset
	failAfterFirst error
}

func (s *stubSource) Load(context.Context) (*loader.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls > 1 && s.failAfterFirst != nil {
		return nil, s.failAfterFirst
	}
	return &loader.Result{
		Dataset:  s.ds,
		Origin:   loader.OriginLocal,
		Encoding: "utf-8",
		LoadedAt: time.Now(),
	}, nil
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		series.New([]string{"Tadej Pogacar", "Jonas Vingegaard", "Wout van Aert", "Mads Pedersen"}, series.String, "Name"),
		series.New([]string{"Slovenia", "Denmark", "Belgium", "Denmark"}, series.String, "Nationality"),
		series.New([]string{"UAE Team Emirates", "Visma Lease a Bike", "Visma Lease a Bike", "Lidl Trek"}, series.String, "Team"),
		series.New([]int{26, 28, 30, 29}, series.Int, "Age"),
		series.New([]int{85, 84, 72, 60}, series.Int, "MO"),
		series.New([]int{70, 62, 80, 82}, series.Int, "SP"),
		series.New([]float64{77.5, 73, 76, 71}, series.Float, "Eval"),
	)
	if err != nil {
		t.Fatalf("dataset.New() error = %v", err)
	}
	return ds
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{DefaultPageSize: 50, MaxPageSize: 1000},
		Cache: config.CacheConfig{
			Enabled:    true,
			SearchTTL:  time.Minute,
			MaxEntries: 100,
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
			AdminToken:        testAdminToken,
		},
	}
}

type testEnv struct {
	handler *Handler
	router  http.Handler
	source  *stubSource
	perfMon *middleware.PerformanceMonitor
}

type envOption func(*config.Config, *stubSource, *time.Duration)

func withReloadInterval(d time.Duration) envOption {
	return func(_ *config.Config, _ *stubSource, interval *time.Duration) { *interval = d }
}

func withConfig(fn func(*config.Config)) envOption {
	return func(c *config.Config, _ *stubSource, _ *time.Duration) { fn(c) }
}

func withReloadFailure(err error) envOption {
	return func(_ *config.Config, s *stubSource, _ *time.Duration) { s.failAfterFirst = err }
}

// newTestEnv builds a loaded handler behind the full router.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := testConfig()
	src := &stubSource{ds: testDataset(t)}
	interval := time.Duration(0)
	for _, opt := range opts {
		opt(cfg, src, &interval)
	}

	perfMon := middleware.NewPerformanceMonitor(100, time.Second)
	h := NewHandler(cfg, loader.NewMemo(src, interval), perfMon)
	t.Cleanup(h.Close)
	if err := h.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	router := NewRouter(h, NewChiMiddleware(NewChiMiddlewareConfig(cfg.Security)), perfMon)
	return &testEnv{handler: h, router: router.SetupChi(), source: src, perfMon: perfMon}
}

func (e *testEnv) do(t *testing.T, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodGet, target, nil)
}

// envelope mirrors models.APIResponse with the payload left raw.
type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Cached         bool   `json:"cached"`
		DatasetVersion uint64 `json:"dataset_version"`
	} `json:"metadata"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	if data != nil && env.Status == "success" {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("invalid data %s: %v", env.Data, err)
		}
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decode(t, rec, nil)
	if env.Status != "error" || env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
	return env
}

var errSourceDown = fmt.Errorf("%w: %w: connection refused", loader.ErrSourceUnavailable, loader.ErrNetwork)
