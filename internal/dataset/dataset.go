// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

// Package dataset wraps a gota DataFrame of rider records.
//
// A Dataset is treated as immutable: every operation that narrows or reshapes
// it returns a new Dataset and leaves the receiver untouched. The column set is
// not fixed, so callers check HasColumn before relying on a column.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrInvalidFrame is returned when a DataFrame carries a load error.
var ErrInvalidFrame = errors.New("invalid data frame")

// Column kinds reported by Columns.
const (
	KindText    = "text"
	KindNumber  = "number"
	KindStat    = "stat"
	KindDerived = "derived"
)

// ColumnInfo describes one column for display.
type ColumnInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Dataset is an ordered collection of rider records sharing a schema.
type Dataset struct {
	df dataframe.DataFrame
}

// FromFrame wraps df. The caller must not modify df afterwards.
func FromFrame(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, df.Err)
	}
	return &Dataset{df: df}, nil
}

// New builds a Dataset from columns of equal length.
func New(cols ...series.Series) (*Dataset, error) {
	return FromFrame(dataframe.New(cols...))
}

// Frame returns a copy of the underlying DataFrame.
func (d *Dataset) Frame() dataframe.DataFrame {
	return d.df.Copy()
}

// Copy returns a deep copy.
func (d *Dataset) Copy() *Dataset {
	if d.df.Ncol() == 0 {
		return &Dataset{df: d.df}
	}
	return &Dataset{df: d.df.Copy()}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.df.Nrow()
}

// Names returns column names in order.
func (d *Dataset) Names() []string {
	return d.df.Names()
}

// HasColumn reports whether the dataset has a column called name.
func (d *Dataset) HasColumn(name string) bool {
	for _, n := range d.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) (series.Series, bool) {
	if !d.HasColumn(name) {
		return series.Series{}, false
	}
	return d.df.Col(name), true
}

// Floats returns the column coerced to float64. Missing or non-numeric cells
// are NaN.
func (d *Dataset) Floats(name string) ([]float64, bool) {
	s, ok := d.Column(name)
	if !ok {
		return nil, false
	}
	return s.Float(), true
}

// Strings returns the column as strings. missing[i] is true where the cell
// had no value; vals[i] is "" there.
func (d *Dataset) Strings(name string) (vals []string, missing []bool, ok bool) {
	s, ok := d.Column(name)
	if !ok {
		return nil, nil, false
	}
	n := s.Len()
	vals = make([]string, n)
	missing = make([]bool, n)
	for i := 0; i < n; i++ {
		e := s.Elem(i)
		if e.IsNA() {
			missing[i] = true
			continue
		}
		vals[i] = formatElem(e)
	}
	return vals, missing, true
}

// Subset returns the given rows in the given order. An empty index list
// yields a zero-row dataset with the same columns.
func (d *Dataset) Subset(rows []int) *Dataset {
	if d.df.Ncol() == 0 {
		return &Dataset{df: d.df}
	}
	if rows == nil {
		rows = []int{}
	}
	return &Dataset{df: d.df.Subset(rows)}
}

// Filter keeps rows where keep is true. keep must have Len() entries.
func (d *Dataset) Filter(keep []bool) *Dataset {
	rows := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			rows = append(rows, i)
		}
	}
	if len(rows) == d.Len() {
		return d
	}
	return d.Subset(rows)
}

// Page returns up to limit rows starting at offset. limit <= 0 means no limit.
func (d *Dataset) Page(offset, limit int) *Dataset {
	n := d.Len()
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return d.Subset(nil)
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	if offset == 0 && end == n {
		return d
	}
	rows := make([]int, 0, end-offset)
	for i := offset; i < end; i++ {
		rows = append(rows, i)
	}
	return d.Subset(rows)
}

// Row returns row i keyed by column name. Integers are int64, decimals are
// float64 and missing cells are nil.
func (d *Dataset) Row(i int) map[string]any {
	names := d.df.Names()
	row := make(map[string]any, len(names))
	for c, name := range names {
		row[name] = elemValue(d.df.Elem(i, c))
	}
	return row
}

// Rows returns every row as a map, in order.
func (d *Dataset) Rows() []map[string]any {
	out := make([]map[string]any, d.Len())
	for i := range out {
		out[i] = d.Row(i)
	}
	return out
}

// Columns describes every column with its display label.
func (d *Dataset) Columns() []ColumnInfo {
	names := d.df.Names()
	types := d.df.Types()
	out := make([]ColumnInfo, len(names))
	for i, name := range names {
		kind := KindText
		switch {
		case name == ColEval:
			kind = KindDerived
		case IsStatCode(name):
			kind = KindStat
		case types[i] == series.Int || types[i] == series.Float:
			kind = KindNumber
		}
		out[i] = ColumnInfo{Name: name, Label: ColumnLabel(name), Kind: kind}
	}
	return out
}

// WriteCSV writes a header row followed by every record, comma-delimited.
// Missing cells are written empty.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	names := d.df.Names()
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(names))
	for i := 0; i < d.Len(); i++ {
		for c := range names {
			e := d.df.Elem(i, c)
			if e.IsNA() {
				rec[c] = ""
				continue
			}
			rec[c] = formatElem(e)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatElem renders an element without gota's fixed six-decimal float format.
func formatElem(e series.Element) string {
	if e.Type() == series.Float {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}

func elemValue(e series.Element) any {
	if e.IsNA() {
		return nil
	}
	switch e.Type() {
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return nil
		}
		return int64(v)
	case series.Float:
		f := e.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case series.Bool:
		b, err := e.Bool()
		if err != nil {
			return nil
		}
		return b
	default:
		return e.String()
	}
}
