// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

/*
Package services adapts CyclingDB components to suture's Serve pattern.

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService turns http.Server's blocking ListenAndServe into a
context-aware Serve with graceful shutdown. RefreshService reloads the rider
dataset on a timer when RIDERS_REFRESH_INTERVAL is set.

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
