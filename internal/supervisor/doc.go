// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

/*
Package supervisor runs CyclingDB's long-lived services under a suture v4
supervisor tree.

# Layout

	RootSupervisor ("cyclingdb")
	├── DataSupervisor ("data-layer")
	│   └── RefreshService (if RIDERS_REFRESH_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer counts failures on its own, so a refresh loop in backoff does not
restart the HTTP server.

# Restart policy

Crashed services are restarted. After FailureThreshold failures (decaying at
FailureDecay per second) the supervisor waits FailureBackoff before trying
again. On shutdown each service gets ShutdownTimeout to return; services that
miss it show up in UnstoppedServiceReport.

# Logging

Supervisor events go through sutureslog to the slog logger passed to
NewSupervisorTree. main passes logging.NewSlogLogger, so events end up in the
same zerolog stream as the rest of the server.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	if cfg.Data.RefreshInterval > 0 {
	    tree.AddDataService(services.NewRefreshService(handler, cfg.Data.RefreshInterval))
	}
	err = tree.Serve(ctx)
*/
package supervisor
