// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package api

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/cyclingdb/internal/models"
	"github.com/tomtom215/cyclingdb/internal/search"
)

// RiderSearchRequest holds the query parameters shared by the riders, export
// and stats endpoints.
//
// Limit is checked against the configured maximum page size in the handler,
// since validate tags are static.
type RiderSearchRequest struct {
	Name           string   `query:"name" validate:"max=100,printable"`
	Nationality    string   `query:"nationality" validate:"max=100,printable"`
	Team           string   `query:"team" validate:"max=100,printable"`
	Teams          []string `query:"teams" validate:"max=50,dive,max=100,printable"`
	MinAge         *int     `query:"min_age" validate:"omitempty,gte=0,lte=100"`
	MaxAge         *int     `query:"max_age" validate:"omitempty,gte=0,lte=100"`
	MinOverall     *float64 `query:"min_overall" validate:"omitempty,gte=0,lte=100"`
	MaxOverall     *float64 `query:"max_overall" validate:"omitempty,gte=0,lte=100"`
	Specialization string   `query:"specialization" validate:"specialization"`
	Expr           string   `query:"expr" validate:"max=1000"`
	Limit          int      `query:"limit" validate:"min=1"`
	Offset         int      `query:"offset" validate:"min=0,max=1000000"` // far above any PCM database size
}

// InvertedRanges implements validation.RangeChecker.
func (r *RiderSearchRequest) InvertedRanges() []string {
	var out []string
	if r.MinAge != nil && r.MaxAge != nil && *r.MinAge > *r.MaxAge {
		out = append(out, "age")
	}
	if r.MinOverall != nil && r.MaxOverall != nil && *r.MinOverall > *r.MaxOverall {
		out = append(out, "overall")
	}
	return out
}

// Filters converts the request to search filters.
func (r *RiderSearchRequest) Filters() search.Filters {
	return search.Filters{
		Name:           r.Name,
		Nationality:    r.Nationality,
		Team:           r.Team,
		Teams:          r.Teams,
		MinAge:         r.MinAge,
		MaxAge:         r.MaxAge,
		MinOverall:     r.MinOverall,
		MaxOverall:     r.MaxOverall,
		Specialization: r.Specialization,
		Expr:           r.Expr,
	}
}

// HasFilters reports whether any filter parameter was given.
func (r *RiderSearchRequest) HasFilters() bool {
	f := r.Filters()
	return strings.TrimSpace(f.Name) != "" ||
		strings.TrimSpace(f.Nationality) != "" ||
		strings.TrimSpace(f.Team) != "" ||
		len(f.Teams) > 0 ||
		f.MinAge != nil || f.MaxAge != nil ||
		f.MinOverall != nil || f.MaxOverall != nil ||
		strings.TrimSpace(f.Specialization) != "" ||
		strings.TrimSpace(f.Expr) != ""
}

// SuggestRequest holds the query parameters of the autocomplete endpoint.
type SuggestRequest struct {
	Query string `query:"q" validate:"required,max=100,printable"`
	Limit int    `query:"limit" validate:"min=1,max=50"`
}

// paramParser collects numeric parse failures so they are reported in the
// same VALIDATION_ERROR shape as tag failures.
type paramParser struct {
	q       url.Values
	invalid []string
}

func (p *paramParser) int(key string, def int) int {
	v := strings.TrimSpace(p.q.Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return def
	}
	return n
}

func (p *paramParser) intPtr(key string) *int {
	v := strings.TrimSpace(p.q.Get(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return nil
	}
	return &n
}

func (p *paramParser) floatPtr(key string) *float64 {
	v := strings.TrimSpace(p.q.Get(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		p.invalid = append(p.invalid, key)
		return nil
	}
	return &f
}

func (p *paramParser) err() *models.APIError {
	if len(p.invalid) == 0 {
		return nil
	}
	return &models.APIError{
		Code:    ErrCodeValidation,
		Message: "invalid number for " + strings.Join(p.invalid, ", "),
		Details: map[string]interface{}{"fields": p.invalid},
	}
}

// parseRiderSearch reads a RiderSearchRequest from the query string.
func parseRiderSearch(q url.Values, defaultLimit int) (*RiderSearchRequest, *models.APIError) {
	p := &paramParser{q: q}
	req := &RiderSearchRequest{
		Name:           q.Get("name"),
		Nationality:    q.Get("nationality"),
		Team:           q.Get("team"),
		Teams:          parseCommaSeparated(q.Get("teams")),
		MinAge:         p.intPtr("min_age"),
		MaxAge:         p.intPtr("max_age"),
		MinOverall:     p.floatPtr("min_overall"),
		MaxOverall:     p.floatPtr("max_overall"),
		Specialization: q.Get("specialization"),
		Expr:           q.Get("expr"),
		Limit:          p.int("limit", defaultLimit),
		Offset:         p.int("offset", 0),
	}
	if apiErr := p.err(); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

// parseSuggest reads a SuggestRequest from the query string.
func parseSuggest(q url.Values) (*SuggestRequest, *models.APIError) {
	p := &paramParser{q: q}
	req := &SuggestRequest{
		Query: q.Get("q"),
		Limit: p.int("limit", 10),
	}
	if apiErr := p.err(); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}
