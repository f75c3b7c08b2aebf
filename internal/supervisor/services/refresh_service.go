// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package services

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/cyclingdb/internal/loader"
	"github.com/tomtom215/cyclingdb/internal/logging"
)

// Reloader replaces the served dataset. *api.Handler satisfies it.
type Reloader interface {
	Reload(ctx context.Context) (*loader.Result, error)
}

// RefreshService reloads the rider dataset on a fixed interval so edits to
// the local CSV are picked up without a restart.
//
// A failed reload is logged and the previous dataset keeps being served.
// Failures never stop the loop, so the supervisor does not back off the
// service because the source is temporarily down.
type RefreshService struct {
	reloader Reloader
	interval time.Duration
	name     string

	// tick is called after every attempt. Tests use it to synchronise.
	tick func(err error)
}

// NewRefreshService creates a refresh loop. interval must be positive.
func NewRefreshService(r Reloader, interval time.Duration) *RefreshService {
	return &RefreshService{
		reloader: r,
		interval: interval,
		name:     "dataset-refresh",
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.refresh(ctx)
			if s.tick != nil {
				s.tick(err)
			}
		}
	}
}

func (s *RefreshService) refresh(ctx context.Context) error {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.WithComponent(ctx, s.name)

	res, err := s.reloader.Reload(ctx)
	switch {
	case err == nil:
		log.Debug().
			Int("riders", res.Dataset.Len()).
			Dur("duration", res.Duration).
			Msg("Scheduled dataset refresh complete")
	case errors.Is(err, loader.ErrReloadThrottled):
		// A manual reload just ran.
		log.Debug().Msg("Scheduled dataset refresh skipped")
	case ctx.Err() != nil:
		// Shutting down.
	default:
		log.Warn().Err(err).Msg("Scheduled dataset refresh failed, keeping current data")
	}
	return err
}

// String names the service in supervisor events.
func (s *RefreshService) String() string {
	return s.name
}
