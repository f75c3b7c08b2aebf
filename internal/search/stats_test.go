// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package search

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-gota/gota/series"
)

func TestStats(t *testing.T) {
	t.Parallel()

	e := New(peloton(t))
	s := e.Stats(nil)

	if s.TotalRiders != 5 {
		t.Errorf("TotalRiders = %d, want 5", s.TotalRiders)
	}
	if s.Countries != 3 {
		t.Errorf("Countries = %d, want 3", s.Countries)
	}
	if s.Teams != 3 {
		t.Errorf("Teams = %d, want 3", s.Teams)
	}
	if s.AvgAge != 27.4 {
		t.Errorf("AvgAge = %v, want 27.4", s.AvgAge)
	}
	if math.Abs(s.AvgEval-76) > 1e-9 {
		t.Errorf("AvgEval = %v, want 76", s.AvgEval)
	}
	if len(s.Columns) != 8 {
		t.Errorf("Columns = %v", s.Columns)
	}
}

func TestStatsOfView(t *testing.T) {
	t.Parallel()

	e := New(peloton(t))
	view, _ := e.Search(Filters{Team: "visma"})
	s := e.Stats(view)
	if s.TotalRiders != 2 || s.Teams != 1 || s.Countries != 2 || s.AvgAge != 29 {
		t.Errorf("Stats(view) = %+v", s)
	}
}

func TestStatsEmptyView(t *testing.T) {
	t.Parallel()

	e := New(peloton(t))
	view, _ := e.Search(Filters{Name: "nobody"})
	s := e.Stats(view)

	if s.TotalRiders != 0 || s.Countries != 0 || s.Teams != 0 {
		t.Errorf("Stats(empty) = %+v", s)
	}
	if s.AvgAge != 0 || math.IsNaN(s.AvgAge) || s.AvgEval != 0 {
		t.Errorf("averages of an empty view must be 0, got age=%v eval=%v", s.AvgAge, s.AvgEval)
	}
}

func TestStatsAbsentColumns(t *testing.T) {
	t.Parallel()

	e := New(mustDataset(t, series.New([]string{"A"}, series.String, "Name")))
	s := e.Stats(nil)
	if s.TotalRiders != 1 || s.Countries != 0 || s.Teams != 0 || s.AvgAge != 0 || s.AvgEval != 0 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestUniqueValues(t *testing.T) {
	t.Parallel()

	e := New(peloton(t))

	tests := []struct {
		column string
		want   []string
	}{
		{"Nationality", []string{"Belgium", "Denmark", "Slovenia"}},
		{"Team", []string{"Lidl Trek", "UAE Team Emirates", "Visma Lease a Bike"}},
		{"Age", []string{"24", "26", "28", "29", "30"}},
		{"Eval", []string{"70.3", "76.3", "76.7", "80.7"}},
		{"Missing", []string{}},
	}
	for _, tt := range tests {
		got := e.UniqueValues(tt.column)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("UniqueValues(%q) = %v, want %v", tt.column, got, tt.want)
		}
	}
}

func TestBounds(t *testing.T) {
	t.Parallel()

	e := New(peloton(t))

	lo, hi, ok := e.Bounds("Age")
	if !ok || lo != 24 || hi != 30 {
		t.Errorf("Bounds(Age) = %v, %v, %v", lo, hi, ok)
	}
	lo, hi, ok = e.Bounds("Eval")
	if !ok || lo != 70.3 || hi != 80.7 {
		t.Errorf("Bounds(Eval) = %v, %v, %v", lo, hi, ok)
	}
	if _, _, ok := e.Bounds("Missing"); ok {
		t.Error("Bounds of an absent column should not be ok")
	}
	if _, _, ok := e.Bounds("Team"); ok {
		t.Error("Bounds of a text column should not be ok")
	}
}
