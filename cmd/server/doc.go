// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

/*
Command server runs the CyclingDB HTTP API over the Pro Cycling Manager rider
export.

# Startup

 1. Configuration: koanf v2 layering defaults, CONFIG_PATH (YAML) and environment
 2. Logging: zerolog, JSON or console
 3. Dataset: read RIDERS_CSV_PATH, or download RIDERS_SOURCE_URL and save it
    there first; the Eval column is derived during load
 4. Supervisor tree: suture v4 with the HTTP server in the api layer and the
    optional refresh loop in the data layer

A failed first load exits the process: there is nothing to serve without a
dataset. Later reload failures keep the previous dataset.

# Configuration

	# Server
	HTTP_PORT=8501
	HTTP_HOST=0.0.0.0
	HTTP_TIMEOUT=30s
	HTTP_SHUTDOWN_TIMEOUT=10s
	SLOW_REQUEST_THRESHOLD=500ms

	# Dataset
	RIDERS_CSV_PATH=data/riders.csv
	RIDERS_SOURCE_URL=https://...       # empty disables downloads
	RIDERS_FETCH_TIMEOUT=30s
	RIDERS_RELOAD_INTERVAL=1m           # minimum gap between reloads
	RIDERS_REFRESH_INTERVAL=0           # background reload, 0 disables
	RIDERS_BREAKER_FAILURES=3
	RIDERS_BREAKER_TIMEOUT=1m

	# API
	API_DEFAULT_PAGE_SIZE=50
	API_MAX_PAGE_SIZE=1000
	CACHE_ENABLED=true
	CACHE_SEARCH_TTL=5m

	# Security
	ADMIN_TOKEN=...                     # bearer token for /api/v1/admin
	CORS_ORIGINS=*
	RATE_LIMIT_REQS=100
	RATE_LIMIT_WINDOW=1m
	DISABLE_RATE_LIMIT=false

	# Logging
	LOG_LEVEL=info
	LOG_FORMAT=json
	LOG_CALLER=false

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server stops accepting
connections and in-flight requests get HTTP_SHUTDOWN_TIMEOUT to finish.

# Example

	export RIDERS_CSV_PATH=/srv/cyclingdb/riders.csv
	export ADMIN_TOKEN=$(openssl rand -hex 32)
	./cyclingdb

	curl 'localhost:8501/api/v1/riders?teams=UAE%20Team%20Emirates&specialization=mountain'
	curl -o riders.csv 'localhost:8501/api/v1/riders/export?min_age=20&max_age=25'
*/
package main
