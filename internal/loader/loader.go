// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

// Package loader produces the rider dataset.
//
// The local CSV is used when present. Otherwise the remote export is
// downloaded once, saved locally and parsed. Parsing trims headers and cells,
// falls back to Latin-1 for non UTF-8 input and derives the Eval column.
// Missing expected columns produce warnings, never errors.
//
// Memo wraps a Loader so the dataset is built once per process and rebuilt
// only on explicit invalidation.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/cyclingdb/internal/dataset"
	"github.com/tomtom215/cyclingdb/internal/logging"
	"github.com/tomtom215/cyclingdb/internal/metrics"
)

// Origins reported in Result.Origin.
const (
	OriginLocal  = "local"
	OriginRemote = "remote"
)

// Options configures a Loader.
type Options struct {
	// Path is the local CSV location.
	Path string

	// SourceURL is downloaded when Path does not exist. Empty disables downloads.
	SourceURL string

	// FetchTimeout bounds the download. Zero means no timeout.
	FetchTimeout time.Duration

	// HTTPClient defaults to a plain http.Client.
	HTTPClient *http.Client

	// BreakerFailures consecutive download failures open the circuit breaker.
	BreakerFailures uint32

	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
}

// Result is a loaded dataset plus what happened while loading it.
type Result struct {
	Dataset  *dataset.Dataset
	Origin   string
	Encoding string
	Warnings []string
	LoadedAt time.Time
	Duration time.Duration
}

// Loader reads the rider CSV. It is safe for concurrent use.
type Loader struct {
	opts    Options
	fetcher *fetcher
}

// New creates a Loader.
func New(opts Options) *Loader {
	return &Loader{
		opts:    opts,
		fetcher: newFetcher(opts),
	}
}

// Load builds a fresh dataset.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	start := time.Now()
	log := logging.WithComponent(ctx, "loader").With().Str("path", l.opts.Path).Logger()

	data, origin, err := l.read(ctx)
	if err != nil {
		metrics.RecordDatasetLoad(origin, Category(err), time.Since(start), 0, 0)
		log.Error().Err(err).Str("origin", origin).Msg("Failed to obtain rider data")
		return nil, err
	}

	res, err := build(data)
	if err != nil {
		metrics.RecordDatasetLoad(origin, Category(err), time.Since(start), 0, 0)
		log.Error().Err(err).Msg("Failed to parse rider data")
		return nil, err
	}
	res.Origin = origin
	res.LoadedAt = time.Now()
	res.Duration = time.Since(start)

	for _, w := range res.Warnings {
		log.Warn().Msg(w)
	}
	metrics.RecordDatasetLoad(origin, "success", res.Duration, res.Dataset.Len(), len(res.Dataset.Names()))
	log.Info().
		Int("riders", res.Dataset.Len()).
		Int("columns", len(res.Dataset.Names())).
		Str("origin", origin).
		Str("encoding", res.Encoding).
		Dur("duration", res.Duration).
		Msg("Loaded riders from database")
	return res, nil
}

// read returns the raw CSV bytes, downloading and saving them when there is
// no local copy.
func (l *Loader) read(ctx context.Context) ([]byte, string, error) {
	data, err := os.ReadFile(l.opts.Path)
	if err == nil {
		return data, OriginLocal, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, OriginLocal, fmt.Errorf("%w: %w: %w", ErrSourceUnavailable, ErrLocalRead, err)
	}

	if l.opts.SourceURL == "" {
		return nil, OriginLocal, fmt.Errorf("%w: %s does not exist and no source URL is configured",
			ErrSourceUnavailable, l.opts.Path)
	}

	logging.Ctx(ctx).Info().Str("url", l.opts.SourceURL).Msg("Downloading rider database")
	data, err = l.fetcher.fetch(ctx)
	if err != nil {
		return nil, OriginRemote, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	if err := save(l.opts.Path, data); err != nil {
		return nil, OriginRemote, fmt.Errorf("%w: %w: %w", ErrSourceUnavailable, ErrSave, err)
	}
	logging.Ctx(ctx).Info().Int("bytes", len(data)).Msg("Download complete")
	return data, OriginRemote, nil
}

// save writes through a temp file and a rename; a partial download is never
// left at path.
func save(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".riders-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// build turns raw bytes into a Result without touching the filesystem.
func build(data []byte) (*Result, error) {
	text, enc, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}

	ds, err := parse(text)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, col := range missingColumns(ds) {
		metrics.RecordSchemaWarning(col)
		warnings = append(warnings, fmt.Sprintf("Expected column '%s' not found in CSV", col))
	}

	ds, derived, err := DeriveEval(ds)
	if err != nil {
		return nil, fmt.Errorf("%w: derive Eval: %w", ErrMalformedSource, err)
	}
	if !derived {
		warnings = append(warnings, "No stat columns found; Eval not derived")
	}

	return &Result{Dataset: ds, Encoding: enc, Warnings: warnings}, nil
}

// Parse builds a Result from CSV bytes already in memory.
func Parse(data []byte) (*Result, error) {
	res, err := build(data)
	if err != nil {
		return nil, err
	}
	res.LoadedAt = time.Now()
	return res, nil
}

// BreakerState reports the download circuit breaker state: closed, half-open
// or open.
func (l *Loader) BreakerState() string {
	return l.fetcher.cb.State().String()
}
