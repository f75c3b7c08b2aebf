// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package models

import (
	"time"
)

// HealthStatus represents the health check response.
//
// Status is "healthy" when a dataset is loaded and "unavailable" otherwise.
type HealthStatus struct {
	Status         string     `json:"status"`
	Version        string     `json:"version"`
	DatasetLoaded  bool       `json:"dataset_loaded"`
	DatasetVersion uint64     `json:"dataset_version"`
	Riders         int        `json:"riders"`
	Columns        int        `json:"columns"`
	Origin         string     `json:"origin,omitempty"`
	Encoding       string     `json:"encoding,omitempty"`
	LoadedAt       *time.Time `json:"loaded_at,omitempty"`
	Warnings       []string   `json:"warnings,omitempty"`
	Breaker        string     `json:"breaker,omitempty"`
	Uptime         float64    `json:"uptime_seconds"`
}

// ReloadResponse reports the outcome of an admin reload.
type ReloadResponse struct {
	DatasetVersion uint64    `json:"dataset_version"`
	Riders         int       `json:"riders"`
	Origin         string    `json:"origin"`
	LoadedAt       time.Time `json:"loaded_at"`
	Warnings       []string  `json:"warnings,omitempty"`
	DurationMS     int64     `json:"duration_ms"`
}
