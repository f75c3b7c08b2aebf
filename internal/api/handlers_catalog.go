// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cyclingdb/internal/models"
	"github.com/tomtom215/cyclingdb/internal/search"
)

// Stats returns statistics for the whole dataset and, when any filter is
// given, for the filtered set too.
//
// @Summary Dataset statistics
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.StatsResponse}
// @Router /stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, ok := h.riderSearchRequest(w, r)
	if !ok {
		return
	}

	snap, err := h.loaded()
	if err != nil {
		respondClassified(w, r, err)
		return
	}

	resp := models.StatsResponse{Overall: snap.engine.Stats(nil)}
	cached := false
	if req.HasFilters() {
		view, hit, err := h.search(snap, req.Filters())
		if err != nil {
			respondClassified(w, r, err)
			return
		}
		filtered := snap.engine.Stats(view)
		resp.Filtered = &filtered
		cached = hit
	}

	respondData(w, r, resp, models.Metadata{
		QueryTimeMS:    time.Since(start).Milliseconds(),
		Cached:         cached,
		DatasetVersion: snap.version,
	})
}

// Columns describes the dataset schema with display labels.
//
// @Summary Dataset columns
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ColumnsResponse}
// @Router /columns [get]
func (h *Handler) Columns(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loaded()
	if err != nil {
		respondClassified(w, r, err)
		return
	}
	respondData(w, r, models.ColumnsResponse{
		Columns:      snap.engine.Dataset().Columns(),
		RatingColumn: snap.engine.RatingColumn(),
	}, models.Metadata{DatasetVersion: snap.version})
}

// Values lists the distinct values of one column, for filter dropdowns.
// Numeric columns also report their range.
//
// @Summary Distinct column values
// @Tags Catalog
// @Produce json
// @Param column path string true "Column name"
// @Success 200 {object} models.APIResponse{data=models.ValuesResponse}
// @Failure 404 {object} models.APIResponse
// @Router /values/{column} [get]
func (h *Handler) Values(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loaded()
	if err != nil {
		respondClassified(w, r, err)
		return
	}

	column := chi.URLParam(r, "column")
	if !snap.engine.Dataset().HasColumn(column) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown column", nil)
		return
	}

	resp := models.ValuesResponse{
		Column: column,
		Values: snap.engine.UniqueValues(column),
	}
	if lo, hi, ok := snap.engine.Bounds(column); ok {
		resp.Min, resp.Max = &lo, &hi
	}
	respondData(w, r, resp, models.Metadata{DatasetVersion: snap.version})
}

// Specializations lists the categories accepted by the specialization filter.
//
// @Summary Specialization categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.SpecializationsResponse}
// @Router /specializations [get]
func (h *Handler) Specializations(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, models.SpecializationsResponse{
		Categories: search.Categories(),
	}, models.Metadata{})
}
