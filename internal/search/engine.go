// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

// Package search filters and summarises the rider dataset.
//
// An Engine holds its own copy of the dataset and never modifies it. Every
// Search returns a new view containing an ordered subsequence of the rows, so
// one Engine can be shared by concurrent requests without locking.
package search

import (
	"time"

	"github.com/tomtom215/cyclingdb/internal/cache"
	"github.com/tomtom215/cyclingdb/internal/dataset"
	"github.com/tomtom215/cyclingdb/internal/metrics"
)

// ColOverall is the fallback rating column used when the derived Eval is not
// available.
const ColOverall = "Overall"

// Engine answers searches over an immutable dataset.
type Engine struct {
	ds     *dataset.Dataset
	rating string
	names  *cache.Trie
}

// Option configures an Engine.
type Option func(*Engine)

// WithRatingColumn sets the column used by the MinOverall/MaxOverall filter.
func WithRatingColumn(name string) Option {
	return func(e *Engine) {
		e.rating = name
	}
}

// New creates an Engine over a copy of ds.
//
// The rating column defaults to Eval. If the dataset has no Eval but does
// have Overall, Overall is used instead.
func New(ds *dataset.Dataset, opts ...Option) *Engine {
	e := &Engine{
		ds:     ds.Copy(),
		rating: dataset.ColEval,
		names:  cache.NewTrie(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.ds.HasColumn(e.rating) && e.rating == dataset.ColEval && e.ds.HasColumn(ColOverall) {
		e.rating = ColOverall
	}

	if names, missing, ok := e.ds.Strings(dataset.ColName); ok {
		for i, n := range names {
			if !missing[i] {
				e.names.InsertWords(n)
			}
		}
	}
	return e
}

// Dataset returns the engine's dataset. Callers must treat it as read-only.
func (e *Engine) Dataset() *dataset.Dataset {
	return e.ds
}

// RatingColumn returns the column the overall range filter applies to.
func (e *Engine) RatingColumn() string {
	return e.rating
}

// Search applies f as a narrowing chain and returns the matching rows in
// their original order. The only error is ErrInvalidExpression.
func (e *Engine) Search(f Filters) (*dataset.Dataset, error) {
	start := time.Now()
	f = f.Normalize()

	var prog *program
	if f.Expr != "" {
		var err error
		if prog, err = compile(f.Expr); err != nil {
			metrics.SearchExpressionErrors.Inc()
			return nil, err
		}
	}

	view := e.ds
	var applied []string
	for _, st := range e.chain(f, prog) {
		keep, ok := st.mask(view)
		if !ok {
			continue
		}
		applied = append(applied, st.name)
		view = view.Filter(keep)
	}

	metrics.RecordSearch(time.Since(start), view.Len(), applied)
	return view, nil
}

// Suggest returns up to limit rider names where the full name or one of its
// later words starts with prefix.
func (e *Engine) Suggest(prefix string, limit int) []string {
	return e.names.Complete(prefix, limit)
}
