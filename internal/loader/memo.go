// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cyclingdb/internal/logging"
	"github.com/tomtom215/cyclingdb/internal/metrics"
)

// Source produces a dataset. *Loader implements it.
type Source interface {
	Load(ctx context.Context) (*Result, error)
}

// Memo caches the result of a Source for the life of the process.
// Concurrent callers of Get share one in-flight load.
type Memo struct {
	src     Source
	group   singleflight.Group
	limiter *rate.Limiter

	mu      sync.RWMutex
	current *Result
	version uint64
}

// NewMemo wraps src. Reload is allowed at most once per reloadInterval;
// zero disables throttling.
func NewMemo(src Source, reloadInterval time.Duration) *Memo {
	limit := rate.Inf
	if reloadInterval > 0 {
		limit = rate.Every(reloadInterval)
	}
	return &Memo{
		src:     src,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Get returns the cached result, loading it first if needed.
func (m *Memo) Get(ctx context.Context) (*Result, error) {
	if res := m.Current(); res != nil {
		return res, nil
	}
	return m.load(ctx, false)
}

// Current returns the cached result without loading, or nil.
func (m *Memo) Current() *Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Version increases every time a new result is stored.
func (m *Memo) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Invalidate drops the cached result. The next Get loads again.
func (m *Memo) Invalidate(ctx context.Context) {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	log := logging.WithComponent(ctx, "loader")
	log.Info().Msg("Rider dataset cache invalidated")
}

// Reload loads a fresh result and replaces the cached one on success. On
// failure the previous result stays in place. Calls faster than the reload
// interval fail with ErrReloadThrottled.
func (m *Memo) Reload(ctx context.Context) (*Result, error) {
	if !m.limiter.Allow() {
		metrics.DatasetReloadsThrottled.Inc()
		return nil, ErrReloadThrottled
	}
	return m.load(ctx, true)
}

func (m *Memo) load(ctx context.Context, force bool) (*Result, error) {
	key := "get"
	if force {
		key = "reload"
	}
	// The shared load must not be cancelled by whichever caller started it.
	loadCtx := logging.ContextWithNewCorrelationID(context.WithoutCancel(ctx))

	ch := m.group.DoChan(key, func() (any, error) {
		if !force {
			if res := m.Current(); res != nil {
				return res, nil
			}
		}
		res, err := m.src.Load(loadCtx)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.current = res
		m.version++
		m.mu.Unlock()
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for dataset load: %w", ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Result), nil
	}
}
