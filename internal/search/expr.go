// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package search

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/tomtom215/cyclingdb/internal/dataset"
	"github.com/tomtom215/cyclingdb/internal/logging"
)

// ErrInvalidExpression is returned by Search when Filters.Expr does not
// compile to a boolean CEL expression.
var ErrInvalidExpression = errors.New("invalid filter expression")

var (
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// env returns the shared CEL environment. It declares one variable, row: a
// map from column name to the cell value. Numbers are doubles, text is a
// string and missing cells are null.
//
//	row.MO >= 75 && row.Age < 25
//	row.Team.contains("Visma") || row.Nationality == "Belgium"
func env() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("row", cel.DynType),
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return celEnv, celEnvErr
}

type program struct {
	src string
	prg cel.Program
}

func compile(src string) (*program, error) {
	e, err := env()
	if err != nil {
		return nil, fmt.Errorf("cel environment: %w", err)
	}

	ast, issues := e.Compile(src)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, issues.Err())
	}
	if out := ast.OutputType().String(); out != "bool" && out != "dyn" {
		return nil, fmt.Errorf("%w: expression returns %s, want bool", ErrInvalidExpression, out)
	}

	prg, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return &program{src: src, prg: prg}, nil
}

// mask evaluates the program once per row. A row whose evaluation fails, for
// example by comparing a missing value, does not match.
func (p *program) mask(v *dataset.Dataset) []bool {
	keep := make([]bool, v.Len())
	failures := 0
	var firstErr error
	for i := range keep {
		out, _, err := p.prg.Eval(map[string]any{"row": celRow(v.Row(i))})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			failures++
			continue
		}
		b, ok := out.Value().(bool)
		keep[i] = ok && b
	}
	if failures > 0 {
		logging.Debug().
			Str("expr", logging.SanitizeValue(p.src)).
			Int("failed_rows", failures).
			AnErr("first_error", firstErr).
			Msg("Filter expression failed on some rows")
	}
	return keep
}

// celRow widens integers to doubles so numeric columns compare uniformly.
func celRow(row map[string]any) map[string]any {
	for k, v := range row {
		if n, ok := v.(int64); ok {
			row[k] = float64(n)
		}
	}
	return row
}
