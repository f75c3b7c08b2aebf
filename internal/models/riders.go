// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package models

import (
	"github.com/tomtom215/cyclingdb/internal/dataset"
	"github.com/tomtom215/cyclingdb/internal/search"
)

// RidersResponse is one page of search results. Riders are keyed by column
// name; missing cells are null.
type RidersResponse struct {
	Riders     []map[string]any     `json:"riders"`
	Columns    []dataset.ColumnInfo `json:"columns"`
	Pagination PaginationInfo       `json:"pagination"`
	Stats      search.Stats         `json:"stats"`
}

// StatsResponse holds statistics for the whole dataset and, when filters were
// given, for the filtered view.
type StatsResponse struct {
	Overall  search.Stats  `json:"overall"`
	Filtered *search.Stats `json:"filtered,omitempty"`
}

// ColumnsResponse lists the dataset schema.
type ColumnsResponse struct {
	Columns      []dataset.ColumnInfo `json:"columns"`
	RatingColumn string               `json:"rating_column"`
}

// ValuesResponse lists the distinct values of one column. Min and Max are set
// for numeric columns and feed range sliders.
type ValuesResponse struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// SuggestResponse is the result of a name autocomplete query.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// SpecializationsResponse lists the accepted specialization categories.
type SpecializationsResponse struct {
	Categories []search.Category `json:"categories"`
}
