// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/cyclingdb/internal/dataset"
)

// Delimiter used by the rider export.
const Delimiter = ';'

// naValues are read as missing cells.
var naValues = []string{"", "NA", "N/A", "NaN", "nan", "<nil>"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode returns data as UTF-8. Bytes that are not valid UTF-8 are read as
// Latin-1, which cannot fail.
func decode(data []byte) (string, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("latin-1 decode: %w", err)
	}
	return string(out), "latin-1", nil
}

// parse reads semicolon-delimited text into a Dataset. Header names and cell
// values are trimmed, short rows are padded and columns without a single
// value are dropped.
func parse(text string) (*dataset.Dataset, error) {
	records, err := readRecords(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrMalformedSource)
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("%w: no rider rows after the header", ErrMalformedSource)
	}

	records = dropBlankColumns(records)
	if len(records[0]) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrMalformedSource)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(naValues),
	)
	ds, err := dataset.FromFrame(df)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}
	return ds, nil
}

func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var records [][]string
	width := 0
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
		}
		if len(records) == 0 {
			width = len(rec)
		} else if isBlank(rec) {
			continue
		}
		switch {
		case len(rec) > width:
			if !isBlank(rec[width:]) {
				return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
					ErrMalformedSource, line, len(rec), width)
			}
			rec = rec[:width]
		case len(rec) < width:
			rec = append(rec, make([]string, width-len(rec))...)
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// dropBlankColumns removes columns whose cells are all blank or NA, whatever
// the header says. A trailing delimiter produces one of these.
func dropBlankColumns(records [][]string) [][]string {
	header := records[0]
	keep := make([]int, 0, len(header))
	for c := range header {
		for _, rec := range records[1:] {
			if !isNA(rec[c]) {
				keep = append(keep, c)
				break
			}
		}
	}
	if len(keep) == len(header) {
		return records
	}
	out := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(keep))
		for j, c := range keep {
			row[j] = rec[c]
		}
		out[i] = row
	}
	return out
}

func isNA(v string) bool {
	return slices.Contains(naValues, v)
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
