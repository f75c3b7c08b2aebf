// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package loader

import (
	"math"

	"github.com/go-gota/gota/series"

	"github.com/tomtom215/cyclingdb/internal/dataset"
)

// ExpectedColumns are checked after parsing. A missing one is a warning.
var ExpectedColumns = []string{
	dataset.ColName,
	dataset.ColNationality,
	dataset.ColTeam,
	dataset.ColAge,
}

// missingColumns returns the expected columns absent from ds, in order.
func missingColumns(ds *dataset.Dataset) []string {
	var missing []string
	for _, c := range ExpectedColumns {
		if !ds.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// DeriveEval adds (or replaces) the Eval column: the per-row mean of the stat
// code columns present, ignoring missing values, rounded to one decimal.
// A row without any stat value gets a missing Eval. When ds has no stat
// columns it is returned unchanged with ok=false.
func DeriveEval(ds *dataset.Dataset) (out *dataset.Dataset, ok bool, err error) {
	var cols [][]float64
	for _, sc := range dataset.StatCodes {
		if f, present := ds.Floats(sc.Code); present {
			cols = append(cols, f)
		}
	}
	if len(cols) == 0 {
		return ds, false, nil
	}

	evals := make([]float64, ds.Len())
	for i := range evals {
		var sum float64
		var n int
		for _, col := range cols {
			if v := col[i]; !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		if n == 0 {
			evals[i] = math.NaN()
			continue
		}
		evals[i] = math.Round(sum/float64(n)*10) / 10
	}

	df := ds.Frame().Mutate(series.New(evals, series.Float, dataset.ColEval))
	out, err = dataset.FromFrame(df)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}
