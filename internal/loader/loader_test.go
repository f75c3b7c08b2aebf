// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package loader

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/cyclingdb/internal/dataset"
)

const ridersCSV = " Name ;Nationality; Team ;Age;MO;SP;TT\n" +
	"Alice;France;Red;25;70;60;65\n" +
	"Bob; Belgium ;Blue;31;55;80;\n" +
	"Cara;Italy;Red;22;;;\n"

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "riders.csv")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLocalFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, []byte(ridersCSV))
	res, err := New(Options{Path: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Origin != OriginLocal {
		t.Errorf("Origin = %q, want local", res.Origin)
	}
	if res.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want utf-8", res.Encoding)
	}
	ds := res.Dataset
	if ds.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ds.Len())
	}
	for _, col := range []string{"Name", "Team", "Nationality", "Eval"} {
		if !ds.HasColumn(col) {
			t.Errorf("missing column %q after header trim, have %v", col, ds.Names())
		}
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	nats, _, _ := ds.Strings("Nationality")
	if nats[1] != "Belgium" {
		t.Errorf("cell not trimmed: %q", nats[1])
	}

	evals, _ := ds.Floats("Eval")
	if evals[0] != 65 {
		t.Errorf("Eval[Alice] = %v, want 65", evals[0])
	}
	if evals[1] != 67.5 {
		t.Errorf("Eval[Bob] = %v, want 67.5 (missing TT excluded)", evals[1])
	}
	if !math.IsNaN(evals[2]) {
		t.Errorf("Eval[Cara] = %v, want NaN", evals[2])
	}
}

func TestLoadLatin1(t *testing.T) {
	t.Parallel()

	// "Müller" with ü as the single Latin-1 byte 0xFC.
	data := []byte("Name;Nationality;Team;Age\nM\xfcller;Germany;Red;29\n")
	res, err := New(Options{Path: writeFile(t, data)}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Encoding != "latin-1" {
		t.Errorf("Encoding = %q, want latin-1", res.Encoding)
	}
	names, _, _ := res.Dataset.Strings("Name")
	if names[0] != "Müller" {
		t.Errorf("Name = %q, want Müller", names[0])
	}
}

func TestLoadMissingColumnsWarn(t *testing.T) {
	t.Parallel()

	data := []byte("Name;Age;MO\nAlice;25;70\n")
	res, err := New(Options{Path: writeFile(t, data)}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2 (Nationality, Team)", res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], "Nationality") || !strings.Contains(res.Warnings[1], "Team") {
		t.Errorf("Warnings = %v", res.Warnings)
	}
}

func TestLoadMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"header only", "Name;Team;Age\n"},
		{"extra fields", "Name;Team;Age\nAlice;Red;25;extra\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(Options{Path: writeFile(t, []byte(tt.data))}).Load(context.Background())
			if !errors.Is(err, ErrMalformedSource) {
				t.Errorf("Load() error = %v, want ErrMalformedSource", err)
			}
			if errors.Is(err, ErrSourceUnavailable) {
				t.Error("malformed input must not be reported as unavailable")
			}
		})
	}
}

func TestParseDropsBlankTrailingColumn(t *testing.T) {
	t.Parallel()

	res, err := Parse([]byte("Name;Team;Age;\nAlice;Red;25;\nBob;Blue;30;\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := strings.Join(res.Dataset.Names(), ","); got != "Name,Team,Age" {
		t.Errorf("Names() = %s", got)
	}
}

func TestParseDropsEmptyNamedColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"empty cells", "Name;Team;Age;Notes;MO;SP\nAlice;Red;25;;70;60\nBob;Blue;30;;60;75\n", "Name,Team,Age,MO,SP,Eval"},
		{"NA cells", "Name;Overall;MO\nAlice;NA;70\nBob;N/A;60\n", "Name,MO,Eval"},
		{"one value keeps it", "Name;Notes\nAlice;\nBob;retired\n", "Name,Notes"},
	}
	for _, tt := range tests {
		res, err := Parse([]byte(tt.csv))
		if err != nil {
			t.Errorf("%s: Parse() error = %v", tt.name, err)
			continue
		}
		if got := strings.Join(res.Dataset.Names(), ","); got != tt.want {
			t.Errorf("%s: Names() = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestParseAllColumnsEmpty(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("Name;Team\n;\nNA;\n"))
	if !errors.Is(err, ErrMalformedSource) {
		t.Errorf("Parse() error = %v, want ErrMalformedSource", err)
	}
}

func TestParseShortRowsPadded(t *testing.T) {
	t.Parallel()

	res, err := Parse([]byte("Name;Team;Age;MO\nAlice;Red\nBob;Blue;30;70\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	ages, missing, _ := res.Dataset.Strings("Age")
	if !missing[0] || ages[1] != "30" {
		t.Errorf("Age = %v missing = %v", ages, missing)
	}
}

func TestLoadDownloadsWhenMissing(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(ridersCSV))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "data", "riders.csv")
	l := New(Options{Path: path, SourceURL: srv.URL, FetchTimeout: 5 * time.Second})

	res, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Origin != OriginRemote {
		t.Errorf("Origin = %q, want remote", res.Origin)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("downloaded file not saved: %v", err)
	}

	// Second load uses the saved copy.
	res, err = l.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if res.Origin != OriginLocal {
		t.Errorf("second Origin = %q, want local", res.Origin)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestLoadNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "riders.csv")
	_, err := New(Options{Path: path, SourceURL: srv.URL, FetchTimeout: 5 * time.Second}).Load(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, ErrNetwork) {
		t.Fatalf("Load() error = %v, want ErrSourceUnavailable+ErrNetwork", err)
	}
	if errors.Is(err, ErrSave) {
		t.Error("network failure must not be reported as a save failure")
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("nothing should be written on a failed download")
	}
}

func TestLoadTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	path := filepath.Join(t.TempDir(), "riders.csv")
	l := New(Options{Path: path, SourceURL: srv.URL, FetchTimeout: 50 * time.Millisecond})
	_, err := l.Load(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Load() error = %v, want ErrNetwork", err)
	}
}

func TestLoadSaveError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ridersCSV))
	}))
	defer srv.Close()

	// A dangling symlink as the parent directory: reading reports "not
	// found" but creating the directory fails.
	dir := t.TempDir()
	link := filepath.Join(dir, "data")
	if err := os.Symlink(filepath.Join(dir, "nowhere"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, err := New(Options{Path: filepath.Join(link, "riders.csv"), SourceURL: srv.URL}).Load(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, ErrSave) {
		t.Fatalf("Load() error = %v, want ErrSourceUnavailable+ErrSave", err)
	}
	if errors.Is(err, ErrNetwork) {
		t.Error("save failure must not be reported as a network failure")
	}
}

func TestLoadNoSource(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Path: filepath.Join(t.TempDir(), "riders.csv")}).Load(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Load() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	l := New(Options{
		Path:            filepath.Join(t.TempDir(), "riders.csv"),
		SourceURL:       srv.URL,
		BreakerFailures: 1,
		BreakerTimeout:  time.Hour,
	})
	for i := 0; i < 3; i++ {
		if _, err := l.Load(context.Background()); !errors.Is(err, ErrNetwork) {
			t.Fatalf("attempt %d: error = %v, want ErrNetwork", i, err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 once the breaker is open", hits.Load())
	}
	if got := l.BreakerState(); got != "open" {
		t.Errorf("BreakerState() = %q, want open", got)
	}
}

func TestCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{ErrReloadThrottled, "throttled"},
		{errors.Join(ErrSourceUnavailable, ErrNetwork), "network"},
		{errors.Join(ErrSourceUnavailable, ErrSave), "save"},
		{errors.Join(ErrSourceUnavailable, ErrLocalRead), "local_read"},
		{ErrSourceUnavailable, "unavailable"},
		{ErrMalformedSource, "malformed"},
		{errors.New("other"), "other"},
	}
	for _, tt := range tests {
		if got := Category(tt.err); got != tt.want {
			t.Errorf("Category(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestDeriveEvalRounding(t *testing.T) {
	t.Parallel()

	res, err := Parse([]byte("Name;FL;MO;HL\nA;70;71;71\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	evals, _ := res.Dataset.Floats(dataset.ColEval)
	if evals[0] != 70.7 {
		t.Errorf("Eval = %v, want 70.7", evals[0])
	}
}

func TestDeriveEvalNoStats(t *testing.T) {
	t.Parallel()

	res, err := Parse([]byte("Name;Nationality;Team;Age\nA;France;Red;30\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Dataset.HasColumn(dataset.ColEval) {
		t.Error("Eval should not be derived without stat columns")
	}
	if len(res.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one about Eval", res.Warnings)
	}
}
