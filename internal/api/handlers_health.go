// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cyclingdb/internal/models"
)

// Health reports the dataset state, the last load and the circuit breaker.
//
// @Summary Get system health status
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:  "unavailable",
		Version: Version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}
	if h.breaker != nil {
		health.Breaker = h.breaker.BreakerState()
	}

	if snap, err := h.loaded(); err == nil {
		res := snap.result
		loadedAt := res.LoadedAt
		health.Status = "healthy"
		health.DatasetLoaded = true
		health.DatasetVersion = snap.version
		health.Riders = res.Dataset.Len()
		health.Columns = len(res.Dataset.Names())
		health.Origin = res.Origin
		health.Encoding = res.Encoding
		health.LoadedAt = &loadedAt
		health.Warnings = res.Warnings
	}

	respondData(w, r, health, models.Metadata{DatasetVersion: health.DatasetVersion})
}

// HealthLive returns 200 while the process is alive.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady returns 200 once a dataset is loaded and 503 before.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loaded()
	if err != nil {
		respondClassified(w, r, err)
		return
	}
	respondData(w, r, map[string]interface{}{
		"ready":  true,
		"riders": snap.result.Dataset.Len(),
	}, models.Metadata{DatasetVersion: snap.version})
}
