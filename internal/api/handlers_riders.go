// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/cyclingdb/internal/dataset"
	"github.com/tomtom215/cyclingdb/internal/logging"
	"github.com/tomtom215/cyclingdb/internal/models"
)

// ExportFilename is the attachment name of the CSV export.
const ExportFilename = "filtered_riders.csv"

// riderSearchRequest parses and validates the shared search parameters,
// writing the error response itself when they are invalid.
func (h *Handler) riderSearchRequest(w http.ResponseWriter, r *http.Request) (*RiderSearchRequest, bool) {
	req, apiErr := parseRiderSearch(r.URL.Query(), h.config.API.DefaultPageSize)
	if apiErr == nil {
		apiErr = validateRequest(req)
	}
	if apiErr == nil && req.Limit > h.config.API.MaxPageSize {
		apiErr = &models.APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("limit must be at most %d", h.config.API.MaxPageSize),
			Details: map[string]interface{}{"field": "limit", "tag": "max", "value": req.Limit},
		}
	}
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return nil, false
	}
	return req, true
}

// filteredView runs the request's filters against the current dataset.
func (h *Handler) filteredView(w http.ResponseWriter, r *http.Request, req *RiderSearchRequest) (*snapshot, *dataset.Dataset, bool, bool) {
	snap, err := h.loaded()
	if err != nil {
		respondClassified(w, r, err)
		return nil, nil, false, false
	}
	view, cached, err := h.search(snap, req.Filters())
	if err != nil {
		respondClassified(w, r, err)
		return nil, nil, false, false
	}
	return snap, view, cached, true
}

// Riders returns one page of riders matching the filters, with statistics
// of the whole filtered set.
//
// @Summary Search riders
// @Tags Riders
// @Produce json
// @Param name query string false "Case-insensitive substring of the rider name"
// @Param nationality query string false "Case-insensitive substring of the nationality"
// @Param team query string false "Case-insensitive substring of the team"
// @Param teams query string false "Comma-separated exact team names"
// @Param min_age query int false "Minimum age"
// @Param max_age query int false "Maximum age"
// @Param min_overall query number false "Minimum rating"
// @Param max_overall query number false "Maximum rating"
// @Param specialization query string false "mountain, sprint, time trial, classics or overall"
// @Param expr query string false "CEL expression over row"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} models.APIResponse{data=models.RidersResponse}
// @Failure 400 {object} models.APIResponse
// @Router /riders [get]
func (h *Handler) Riders(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, ok := h.riderSearchRequest(w, r)
	if !ok {
		return
	}
	snap, view, cached, ok := h.filteredView(w, r, req)
	if !ok {
		return
	}

	total := view.Len()
	page := view.Page(req.Offset, req.Limit)

	respondData(w, r, models.RidersResponse{
		Riders:  page.Rows(),
		Columns: view.Columns(),
		Pagination: models.PaginationInfo{
			Limit:   req.Limit,
			Offset:  req.Offset,
			Total:   total,
			HasMore: req.Offset+page.Len() < total,
		},
		Stats: snap.engine.Stats(view),
	}, models.Metadata{
		QueryTimeMS:    time.Since(start).Milliseconds(),
		Cached:         cached,
		DatasetVersion: snap.version,
	})
}

// ExportRiders streams every rider matching the filters as a comma-delimited
// CSV attachment. Pagination parameters are ignored.
//
// @Summary Export filtered riders as CSV
// @Tags Riders
// @Produce text/csv
// @Success 200 {file} file
// @Failure 400 {object} models.APIResponse
// @Router /riders/export [get]
func (h *Handler) ExportRiders(w http.ResponseWriter, r *http.Request) {
	req, ok := h.riderSearchRequest(w, r)
	if !ok {
		return
	}
	snap, view, _, ok := h.filteredView(w, r, req)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.Header().Set("X-Dataset-Version", strconv.FormatUint(snap.version, 10))
	w.Header().Set("X-Total-Count", strconv.Itoa(view.Len()))
	w.WriteHeader(http.StatusOK)

	if err := view.WriteCSV(w); err != nil {
		// Headers are gone; all that is left is to log it.
		logging.Ctx(r.Context()).Error().Err(err).Int("riders", view.Len()).Msg("Failed to write CSV export")
	}
}

// SuggestRiders autocompletes rider names.
//
// @Summary Rider name autocomplete
// @Tags Riders
// @Produce json
// @Param q query string true "Prefix"
// @Param limit query int false "Maximum suggestions (1-50, default 10)"
// @Success 200 {object} models.APIResponse{data=models.SuggestResponse}
// @Router /riders/suggest [get]
func (h *Handler) SuggestRiders(w http.ResponseWriter, r *http.Request) {
	req, apiErr := parseSuggest(r.URL.Query())
	if apiErr == nil {
		apiErr = validateRequest(req)
	}
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	snap, err := h.loaded()
	if err != nil {
		respondClassified(w, r, err)
		return
	}

	respondData(w, r, models.SuggestResponse{
		Query:       req.Query,
		Suggestions: snap.engine.Suggest(req.Query, req.Limit),
	}, models.Metadata{DatasetVersion: snap.version})
}
