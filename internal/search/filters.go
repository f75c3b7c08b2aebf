// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package search

import (
	"math"
	"strings"

	"github.com/tomtom215/cyclingdb/internal/dataset"
)

// Filters selects riders. Every field is optional; a zero value or a blank
// string leaves that step out of the chain.
type Filters struct {
	Name           string   `json:"name,omitempty"`
	Nationality    string   `json:"nationality,omitempty"`
	Team           string   `json:"team,omitempty"`
	Teams          []string `json:"teams,omitempty"`
	MinAge         *int     `json:"min_age,omitempty"`
	MaxAge         *int     `json:"max_age,omitempty"`
	MinOverall     *float64 `json:"min_overall,omitempty"`
	MaxOverall     *float64 `json:"max_overall,omitempty"`
	Specialization string   `json:"specialization,omitempty"`
	Expr           string   `json:"expr,omitempty"`
}

// Normalize trims strings and drops blank team names. It returns a copy, so
// two filter sets that select the same riders compare equal.
func (f Filters) Normalize() Filters {
	f.Name = strings.TrimSpace(f.Name)
	f.Nationality = strings.TrimSpace(f.Nationality)
	f.Team = strings.TrimSpace(f.Team)
	f.Specialization = strings.TrimSpace(f.Specialization)
	f.Expr = strings.TrimSpace(f.Expr)

	teams := make([]string, 0, len(f.Teams))
	for _, t := range f.Teams {
		if t = strings.TrimSpace(t); t != "" {
			teams = append(teams, t)
		}
	}
	f.Teams = teams
	return f
}

// step is one link of the filter chain. mask returns ok=false when the step
// does not apply to the view (column absent or parameter unset).
type step struct {
	name string
	mask func(view *dataset.Dataset) (keep []bool, ok bool)
}

// chain lists the steps in the order they narrow the result.
func (e *Engine) chain(f Filters, prog *program) []step {
	return []step{
		{"name", func(v *dataset.Dataset) ([]bool, bool) {
			return containsMask(v, dataset.ColName, f.Name)
		}},
		{"nationality", func(v *dataset.Dataset) ([]bool, bool) {
			return containsMask(v, dataset.ColNationality, f.Nationality)
		}},
		{"team", func(v *dataset.Dataset) ([]bool, bool) {
			return containsMask(v, dataset.ColTeam, f.Team)
		}},
		{"teams", func(v *dataset.Dataset) ([]bool, bool) {
			return memberMask(v, dataset.ColTeam, f.Teams)
		}},
		{"age", func(v *dataset.Dataset) ([]bool, bool) {
			return rangeMask(v, dataset.ColAge, intBound(f.MinAge), intBound(f.MaxAge))
		}},
		{"overall", func(v *dataset.Dataset) ([]bool, bool) {
			return rangeMask(v, e.rating, f.MinOverall, f.MaxOverall)
		}},
		{"specialization", func(v *dataset.Dataset) ([]bool, bool) {
			return specializationMask(v, f.Specialization)
		}},
		{"expr", func(v *dataset.Dataset) ([]bool, bool) {
			if prog == nil {
				return nil, false
			}
			return prog.mask(v), true
		}},
	}
}

// containsMask keeps rows whose column contains needle, ignoring case.
// Missing cells never match.
func containsMask(v *dataset.Dataset, col, needle string) ([]bool, bool) {
	if needle == "" {
		return nil, false
	}
	vals, missing, ok := v.Strings(col)
	if !ok {
		return nil, false
	}
	needle = strings.ToLower(needle)
	keep := make([]bool, len(vals))
	for i, s := range vals {
		keep[i] = !missing[i] && strings.Contains(strings.ToLower(s), needle)
	}
	return keep, true
}

// memberMask keeps rows whose column equals one of values, ignoring case.
func memberMask(v *dataset.Dataset, col string, values []string) ([]bool, bool) {
	if len(values) == 0 {
		return nil, false
	}
	vals, missing, ok := v.Strings(col)
	if !ok {
		return nil, false
	}
	set := make(map[string]struct{}, len(values))
	for _, s := range values {
		set[strings.ToLower(s)] = struct{}{}
	}
	keep := make([]bool, len(vals))
	for i, s := range vals {
		if missing[i] {
			continue
		}
		_, keep[i] = set[strings.ToLower(strings.TrimSpace(s))]
	}
	return keep, true
}

// rangeMask keeps rows with min <= value <= max for the bounds that are set.
// A missing or non-numeric value fails any set bound.
func rangeMask(v *dataset.Dataset, col string, lo, hi *float64) ([]bool, bool) {
	if lo == nil && hi == nil {
		return nil, false
	}
	vals, ok := v.Floats(col)
	if !ok {
		return nil, false
	}
	keep := make([]bool, len(vals))
	for i, x := range vals {
		if math.IsNaN(x) {
			continue
		}
		keep[i] = (lo == nil || x >= *lo) && (hi == nil || x <= *hi)
	}
	return keep, true
}

func intBound(p *int) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}
