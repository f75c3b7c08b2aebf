// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package api

import (
	"encoding/csv"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/cyclingdb/internal/config"
	"github.com/tomtom215/cyclingdb/internal/models"
)

func riderNames(resp models.RidersResponse) []string {
	out := make([]string, len(resp.Riders))
	for i, r := range resp.Riders {
		out[i], _ = r["Name"].(string)
	}
	return out
}

// ===================================================================================================
// GET /api/v1/riders
// ===================================================================================================

func TestRiders_Filters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{"no filters", url.Values{}, []string{"Tadej Pogacar", "Jonas Vingegaard", "Wout van Aert", "Mads Pedersen"}},
		{"team substring", url.Values{"team": {"visma"}}, []string{"Jonas Vingegaard", "Wout van Aert"}},
		{"teams exact", url.Values{"teams": {"Lidl Trek, uae team emirates"}}, []string{"Tadej Pogacar", "Mads Pedersen"}},
		{"teams partial name", url.Values{"teams": {"Lidl"}}, []string{}},
		{"nationality", url.Values{"nationality": {"DEN"}}, []string{"Jonas Vingegaard", "Mads Pedersen"}},
		{"age range", url.Values{"min_age": {"28"}, "max_age": {"29"}}, []string{"Jonas Vingegaard", "Mads Pedersen"}},
		{"overall", url.Values{"min_overall": {"75"}}, []string{"Tadej Pogacar", "Wout van Aert"}},
		{"specialization", url.Values{"specialization": {"sprint"}}, []string{"Wout van Aert", "Mads Pedersen"}},
		{"specialization synonym", url.Values{"specialization": {"climber"}}, []string{"Tadej Pogacar", "Jonas Vingegaard"}},
		{"expression", url.Values{"expr": {"row.Age >= 29 && row.SP > 80"}}, []string{"Mads Pedersen"}},
		{"combined", url.Values{"team": {"visma"}, "specialization": {"mountain"}}, []string{"Jonas Vingegaard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := env.get(t, "/api/v1/riders?"+tt.query.Encode())
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var resp models.RidersResponse
			decode(t, rec, &resp)

			if got := riderNames(resp); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("riders = %v, want %v", got, tt.want)
			}
			if resp.Pagination.Total != len(tt.want) {
				t.Errorf("total = %d, want %d", resp.Pagination.Total, len(tt.want))
			}
			if resp.Stats.TotalRiders != len(tt.want) {
				t.Errorf("stats.total_riders = %d, want %d", resp.Stats.TotalRiders, len(tt.want))
			}
		})
	}
}

func TestRiders_Pagination(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		query   string
		want    []string
		hasMore bool
	}{
		{"limit=2", []string{"Tadej Pogacar", "Jonas Vingegaard"}, true},
		{"limit=2&offset=2", []string{"Wout van Aert", "Mads Pedersen"}, false},
		{"limit=3&offset=3", []string{"Mads Pedersen"}, false},
		{"offset=10", []string{}, false},
	}
	for _, tt := range tests {
		rec := env.get(t, "/api/v1/riders?"+tt.query)
		var resp models.RidersResponse
		decode(t, rec, &resp)

		if got := riderNames(resp); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: riders = %v, want %v", tt.query, got, tt.want)
		}
		if resp.Pagination.HasMore != tt.hasMore || resp.Pagination.Total != 4 {
			t.Errorf("%s: pagination = %+v", tt.query, resp.Pagination)
		}
		// Stats cover the filtered set, not the page.
		if resp.Stats.TotalRiders != 4 {
			t.Errorf("%s: stats.total_riders = %d, want 4", tt.query, resp.Stats.TotalRiders)
		}
	}
}

func TestRiders_RowShape(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.get(t, "/api/v1/riders?name=pogacar")
	var resp models.RidersResponse
	decode(t, rec, &resp)

	if len(resp.Riders) != 1 {
		t.Fatalf("riders = %v", resp.Riders)
	}
	row := resp.Riders[0]
	if row["Team"] != "UAE Team Emirates" || row["Age"] != float64(26) || row["Eval"] != 77.5 {
		t.Errorf("row = %v", row)
	}
	if len(resp.Columns) != 7 || resp.Columns[0].Label != "Rider Name" {
		t.Errorf("columns = %+v", resp.Columns)
	}
}

func TestRiders_ValidationErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"inverted age", "min_age=30&max_age=20", "age"},
		{"inverted overall", "min_overall=80&max_overall=70", "overall"},
		{"age not a number", "min_age=old", ""},
		{"overall not a number", "max_overall=NaN", ""},
		{"negative age", "min_age=-1", "min_age"},
		{"limit above max", "limit=5000", "limit"},
		{"limit zero", "limit=0", "limit"},
		{"negative offset", "offset=-5", "offset"},
		{"unknown specialization", "specialization=breakaway", "specialization"},
		{"control character", "name=%0Aadmin", "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := env.get(t, "/api/v1/riders?"+tt.query)
			e := expectError(t, rec, http.StatusBadRequest, ErrCodeValidation)
			if tt.field != "" && e.Error.Details["field"] != tt.field {
				t.Errorf("details = %v, want field %s", e.Error.Details, tt.field)
			}
		})
	}
}

func TestRiders_InvalidExpression(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for _, expr := range []string{"row.Age >", `"text"`, "1 + 2"} {
		rec := env.get(t, "/api/v1/riders?expr="+url.QueryEscape(expr))
		expectError(t, rec, http.StatusBadRequest, ErrCodeInvalidExpression)
	}
}

func TestRiders_CachedOnRepeat(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	first := decode(t, env.get(t, "/api/v1/riders?team=visma&limit=1"), nil)
	second := decode(t, env.get(t, "/api/v1/riders?team=visma&limit=1&offset=1"), nil)

	if first.Metadata.Cached {
		t.Error("first request should not be served from cache")
	}
	if !second.Metadata.Cached {
		t.Error("second page of the same filters should reuse the cached view")
	}
	if first.Metadata.DatasetVersion != 1 {
		t.Errorf("dataset_version = %d, want 1", first.Metadata.DatasetVersion)
	}
}

func TestRiders_CachedAcrossEquivalentFilters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	var a, b models.RidersResponse
	first := decode(t, env.get(t, "/api/v1/riders?team=%20visma%20"), &a)
	second := decode(t, env.get(t, "/api/v1/riders?team=visma"), &b)

	if first.Metadata.Cached {
		t.Error("first request should not be served from cache")
	}
	if !second.Metadata.Cached {
		t.Error("filters differing only in surrounding spaces should share a cache entry")
	}
	if a.Pagination.Total == 0 || a.Pagination.Total != b.Pagination.Total {
		t.Errorf("totals = %d and %d, want equal and non-zero", a.Pagination.Total, b.Pagination.Total)
	}
}

func TestRiders_CacheDisabled(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, withConfig(func(c *config.Config) { c.Cache.Enabled = false }))
	env.get(t, "/api/v1/riders?team=visma")
	if decode(t, env.get(t, "/api/v1/riders?team=visma"), nil).Metadata.Cached {
		t.Error("cache disabled but response marked cached")
	}
}

func TestRiders_ETag(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.get(t, "/api/v1/riders?team=visma")
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	again := env.do(t, http.MethodGet, "/api/v1/riders?team=visma", map[string]string{"If-None-Match": etag})
	if again.Code != http.StatusNotModified || again.Body.Len() != 0 {
		t.Errorf("status = %d, body %q; want empty 304", again.Code, again.Body.String())
	}

	other := env.do(t, http.MethodGet, "/api/v1/riders?team=lidl", map[string]string{"If-None-Match": etag})
	if other.Code != http.StatusOK {
		t.Errorf("different filters answered %d, want 200", other.Code)
	}
}

// ===================================================================================================
// GET /api/v1/riders/export
// ===================================================================================================

func TestExportRiders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.get(t, "/api/v1/riders/export?nationality=denmark&limit=1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="filtered_riders.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	// Header plus both Danish riders; limit does not apply to exports.
	if len(records) != 3 {
		t.Fatalf("records = %v", records)
	}
	if records[0][0] != "Name" || records[1][0] != "Jonas Vingegaard" || records[2][6] != "71" {
		t.Errorf("records = %v", records)
	}
	if rec.Header().Get("X-Total-Count") != "2" {
		t.Errorf("X-Total-Count = %q", rec.Header().Get("X-Total-Count"))
	}
}

func TestExportRiders_Invalid(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	expectError(t, env.get(t, "/api/v1/riders/export?expr=%29"), http.StatusBadRequest, ErrCodeInvalidExpression)
}

// ===================================================================================================
// GET /api/v1/riders/suggest
// ===================================================================================================

func TestSuggestRiders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"q=va", []string{"Wout van Aert"}},
		{"q=MADS", []string{"Mads Pedersen"}},
		{"q=v", []string{"Jonas Vingegaard", "Wout van Aert"}},
		{"q=v&limit=1", []string{"Jonas Vingegaard"}},
		{"q=zz", []string{}},
	}
	for _, tt := range tests {
		var resp models.SuggestResponse
		decode(t, env.get(t, "/api/v1/riders/suggest?"+tt.query), &resp)
		if !reflect.DeepEqual(resp.Suggestions, tt.want) {
			t.Errorf("%s: suggestions = %v, want %v", tt.query, resp.Suggestions, tt.want)
		}
	}

	expectError(t, env.get(t, "/api/v1/riders/suggest"), http.StatusBadRequest, ErrCodeValidation)
	expectError(t, env.get(t, "/api/v1/riders/suggest?q=a&limit=500"), http.StatusBadRequest, ErrCodeValidation)
}
