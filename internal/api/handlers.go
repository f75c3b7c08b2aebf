// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package api

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tomtom215/cyclingdb/internal/cache"
	"github.com/tomtom215/cyclingdb/internal/config"
	"github.com/tomtom215/cyclingdb/internal/dataset"
	"github.com/tomtom215/cyclingdb/internal/loader"
	"github.com/tomtom215/cyclingdb/internal/logging"
	"github.com/tomtom215/cyclingdb/internal/middleware"
	"github.com/tomtom215/cyclingdb/internal/search"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// snapshot is one loaded dataset and the engine built over it. Handlers read
// it once per request so a concurrent reload never mixes two datasets.
type snapshot struct {
	engine  *search.Engine
	result  *loader.Result
	version uint64
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, dataset lifecycle, search cache
//   - handlers_helpers.go: response and validation helpers
//   - handlers_health.go: health probes
//   - handlers_riders.go: search, export and autocomplete
//   - handlers_catalog.go: stats, columns, values, specializations
//   - handlers_admin.go: reload and performance report
type Handler struct {
	config    *config.Config
	memo      *loader.Memo
	current   atomic.Pointer[snapshot]
	cache     *cache.Cache[*dataset.Dataset]
	perfMon   *middleware.PerformanceMonitor
	breaker   BreakerReporter
	startTime time.Time
}

// BreakerReporter exposes the state of the download circuit breaker.
// *loader.Loader implements it.
type BreakerReporter interface {
	BreakerState() string
}

// NewHandler creates a handler. No dataset is available until Load succeeds.
// perfMon may be nil, in which case the performance endpoint reports nothing.
func NewHandler(cfg *config.Config, memo *loader.Memo, perfMon *middleware.PerformanceMonitor) *Handler {
	h := &Handler{
		config:    cfg,
		memo:      memo,
		perfMon:   perfMon,
		startTime: time.Now(),
	}
	if cfg.Cache.Enabled {
		h.cache = cache.New[*dataset.Dataset]("search", cfg.Cache.SearchTTL, cfg.Cache.MaxEntries)
	}
	return h
}

// SetBreakerReporter makes the health endpoint report the circuit breaker.
func (h *Handler) SetBreakerReporter(b BreakerReporter) {
	h.breaker = b
}

// Load obtains the dataset through the memoized loader and publishes an
// engine over it.
func (h *Handler) Load(ctx context.Context) error {
	res, err := h.memo.Get(ctx)
	if err != nil {
		return err
	}
	h.publish(res)
	return nil
}

// Reload forces a fresh load. On failure the current engine keeps serving.
func (h *Handler) Reload(ctx context.Context) (*loader.Result, error) {
	res, err := h.memo.Reload(ctx)
	if err != nil {
		return nil, err
	}
	h.publish(res)
	return res, nil
}

func (h *Handler) publish(res *loader.Result) {
	snap := &snapshot{
		engine:  search.New(res.Dataset),
		result:  res,
		version: h.memo.Version(),
	}
	h.current.Store(snap)
	h.ClearCache()

	logging.Info().
		Uint64("dataset_version", snap.version).
		Int("riders", res.Dataset.Len()).
		Str("rating_column", snap.engine.RatingColumn()).
		Msg("Search engine ready")
}

// loaded returns the published snapshot or ErrNotReady.
func (h *Handler) loaded() (*snapshot, error) {
	snap := h.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// ClearCache drops all cached search results.
func (h *Handler) ClearCache() {
	if h.cache != nil {
		h.cache.Clear()
	}
}

// Close stops background work owned by the handler.
func (h *Handler) Close() {
	if h.cache != nil {
		h.cache.Stop()
	}
}

// searchKey identifies a search; the version keeps results from different
// datasets apart even if a clear races with a lookup.
type searchKey struct {
	Version uint64         `json:"v"`
	Filters search.Filters `json:"f"`
}

// search runs f against snap, consulting the result cache first.
func (h *Handler) search(snap *snapshot, f search.Filters) (view *dataset.Dataset, cached bool, err error) {
	if h.cache == nil {
		view, err = snap.engine.Search(f)
		return view, false, err
	}

	key := cache.GenerateKey("search", searchKey{Version: snap.version, Filters: f.Normalize()})
	if view, ok := h.cache.Get(key); ok {
		return view, true, nil
	}
	view, err = snap.engine.Search(f)
	if err != nil {
		return nil, false, err
	}
	h.cache.Set(key, view)
	return view, false, nil
}
