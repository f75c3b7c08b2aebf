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

// Specialization categories.
const (
	Mountain  = "mountain"
	Sprint    = "sprint"
	TimeTrial = "time trial"
	Classics  = "classics"
	Overall   = "overall"
)

// Category is a specialization and the terms that identify its columns.
type Category struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
}

// categories in display order.
var categories = []Category{
	{Mountain, []string{"mountain", "climber", "hill"}},
	{Sprint, []string{"sprint", "flat"}},
	{TimeTrial, []string{"time trial", "tt", "chrono"}},
	{Classics, []string{"classics", "cobbles"}},
	{Overall, []string{"overall", "general classification", "gc"}},
}

// statKeywords decide which columns take part in the row maximum. This set is
// shared by every category, so e.g. Hill and Flat never count.
var statKeywords = []string{"mountain", "sprint", "time trial", "overall", "classics"}

// Categories returns the accepted specializations.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Synonyms: append([]string(nil), c.Synonyms...)}
	}
	return out
}

// ResolveCategory maps a requested label, or any synonym of one, to its
// category. ok is false for unknown labels.
func ResolveCategory(label string) (Category, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return Category{}, false
	}
	for _, c := range categories {
		for _, s := range c.Synonyms {
			if s == label {
				return c, true
			}
		}
	}
	return Category{}, false
}

// columnTerms returns the lowercased column name and display label a keyword
// is matched against. Stat codes like MO only reveal their meaning through
// the label.
func columnTerms(name string) []string {
	terms := []string{strings.ToLower(name)}
	if label := strings.ToLower(dataset.ColumnLabel(name)); label != terms[0] {
		terms = append(terms, label)
	}
	return terms
}

func matchesAny(name string, keywords []string) bool {
	for _, term := range columnTerms(name) {
		for _, kw := range keywords {
			if strings.Contains(term, kw) {
				return true
			}
		}
	}
	return false
}

// statUniverse returns the columns compared when looking for a rider's best stat.
func statUniverse(names []string) []string {
	var out []string
	for _, n := range names {
		if matchesAny(n, statKeywords) {
			out = append(out, n)
		}
	}
	return out
}

// specializationMask keeps riders whose best stat, among the stat universe,
// is one of the category's columns. Ties count as a match, so a rider whose
// stats are all missing (every value 0) passes for any category that has
// columns.
func specializationMask(v *dataset.Dataset, label string) ([]bool, bool) {
	if label == "" {
		return nil, false
	}
	cat, ok := ResolveCategory(label)
	if !ok {
		return nil, false
	}

	universe := statUniverse(v.Names())
	if len(universe) == 0 {
		return nil, false
	}

	var targets [][]float64
	rowMax := make([]float64, v.Len())
	for i := range rowMax {
		rowMax[i] = math.Inf(-1)
	}

	// Column at a time: fold each stat column into the row maximum.
	for _, name := range universe {
		vals, _ := v.Floats(name)
		for i, x := range vals {
			if math.IsNaN(x) {
				vals[i] = 0
				x = 0
			}
			if x > rowMax[i] {
				rowMax[i] = x
			}
		}
		if matchesAny(name, cat.Synonyms) {
			targets = append(targets, vals)
		}
	}
	if len(targets) == 0 {
		return nil, false
	}

	keep := make([]bool, v.Len())
	for _, col := range targets {
		for i, x := range col {
			if x == rowMax[i] {
				keep[i] = true
			}
		}
	}
	return keep, true
}
