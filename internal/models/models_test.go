// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestAPIResponseErrorShape(t *testing.T) {
	t.Parallel()

	resp := APIResponse{
		Status:   "error",
		Metadata: Metadata{Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		Error:    &APIError{Code: "VALIDATION_ERROR", Message: "min_age must be at least 0"},
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	for _, want := range []string{`"status":"error"`, `"data":null`, `"code":"VALIDATION_ERROR"`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in %s", want, got)
		}
	}
	for _, absent := range []string{`"details"`, `"cached"`, `"query_time_ms"`, `"dataset_version"`} {
		if strings.Contains(got, absent) {
			t.Errorf("unexpected %s in %s", absent, got)
		}
	}
}

func TestRidersResponseKeepsNulls(t *testing.T) {
	t.Parallel()

	resp := RidersResponse{
		Riders:     []map[string]any{{"Name": "Cara", "MO": nil}},
		Pagination: PaginationInfo{Limit: 50, Total: 1},
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"MO":null`) {
		t.Errorf("missing cells should encode as null: %s", data)
	}
	if !strings.Contains(string(data), `"has_more":false`) {
		t.Errorf("has_more should always be present: %s", data)
	}
}

func TestStatsResponseOmitsFiltered(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(StatsResponse{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "filtered") {
		t.Errorf("filtered stats should be omitted when nil: %s", data)
	}
}
