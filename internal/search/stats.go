// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package search

import (
	"math"
	"sort"

	"github.com/tomtom215/cyclingdb/internal/dataset"
)

// Stats summarises a view of the dataset.
type Stats struct {
	TotalRiders int      `json:"total_riders"`
	Countries   int      `json:"countries"`
	Teams       int      `json:"teams"`
	AvgAge      float64  `json:"avg_age"`
	AvgEval     float64  `json:"avg_eval"`
	Columns     []string `json:"columns"`
}

// UniqueValues returns the distinct non-missing values of column, sorted.
// An unknown column yields an empty slice.
func (e *Engine) UniqueValues(column string) []string {
	vals, missing, ok := e.ds.Strings(column)
	if !ok {
		return []string{}
	}
	seen := make(map[string]struct{})
	out := []string{}
	for i, v := range vals {
		if missing[i] {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Stats summarises view, or the whole dataset when view is nil. Absent
// columns and empty views give zero counts and averages, never NaN.
func (e *Engine) Stats(view *dataset.Dataset) Stats {
	if view == nil {
		view = e.ds
	}
	names := view.Names()
	if names == nil {
		names = []string{}
	}
	return Stats{
		TotalRiders: view.Len(),
		Countries:   distinctCount(view, dataset.ColNationality),
		Teams:       distinctCount(view, dataset.ColTeam),
		AvgAge:      mean(view, dataset.ColAge),
		AvgEval:     mean(view, e.rating),
		Columns:     names,
	}
}

// Bounds returns the smallest and largest value of a numeric column, ignoring
// missing cells. ok is false when the column is absent or has no numbers.
func (e *Engine) Bounds(column string) (lo, hi float64, ok bool) {
	vals, present := e.ds.Floats(column)
	if !present {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range vals {
		if math.IsNaN(x) {
			continue
		}
		ok = true
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

func distinctCount(v *dataset.Dataset, col string) int {
	vals, missing, ok := v.Strings(col)
	if !ok {
		return 0
	}
	seen := make(map[string]struct{})
	for i, s := range vals {
		if !missing[i] {
			seen[s] = struct{}{}
		}
	}
	return len(seen)
}

func mean(v *dataset.Dataset, col string) float64 {
	vals, ok := v.Floats(col)
	if !ok {
		return 0
	}
	var sum float64
	n := 0
	for _, x := range vals {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
