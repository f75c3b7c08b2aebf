// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/tomtom215/cyclingdb/internal/logging"
	"github.com/tomtom215/cyclingdb/internal/middleware"
	"github.com/tomtom215/cyclingdb/internal/models"
)

// RequireAdmin rejects requests without the configured admin token in an
// "Authorization: Bearer" header. With no token configured every request
// passes.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := h.config.Security.AdminToken
		if want == "" {
			next.ServeHTTP(w, r)
			return
		}

		got, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(want)) != 1 {
			logging.Ctx(r.Context()).Warn().
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Msg("Rejected admin request")
			respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Missing or invalid admin token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ReloadDataset re-reads the rider CSV and swaps in a new engine. When the
// reload fails the previous dataset keeps serving.
//
// @Summary Reload the rider dataset
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.ReloadResponse}
// @Failure 429 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /admin/reload [post]
func (h *Handler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	res, err := h.Reload(r.Context())
	if err != nil {
		respondClassified(w, r, err)
		return
	}

	snap, err := h.loaded()
	if err != nil {
		respondClassified(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Uint64("dataset_version", snap.version).
		Int("riders", res.Dataset.Len()).
		Msg("Rider dataset reloaded")

	respondData(w, r, models.ReloadResponse{
		DatasetVersion: snap.version,
		Riders:         res.Dataset.Len(),
		Origin:         res.Origin,
		LoadedAt:       res.LoadedAt,
		Warnings:       res.Warnings,
		DurationMS:     res.Duration.Milliseconds(),
	}, models.Metadata{DatasetVersion: snap.version})
}

// Performance reports request latency per route and recent slow requests.
//
// @Summary Request performance report
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=middleware.PerformanceReport}
// @Router /admin/performance [get]
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	report := middleware.PerformanceReport{
		Endpoints: []middleware.EndpointStats{},
		Slow:      []middleware.RequestSample{},
	}
	if h.perfMon != nil {
		report = h.perfMon.Report()
	}
	respondData(w, r, report, models.Metadata{})
}
