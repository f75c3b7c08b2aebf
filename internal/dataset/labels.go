// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package dataset

// Well-known column names.
const (
	ColName        = "Name"
	ColTeam        = "Team"
	ColAge         = "Age"
	ColNationality = "Nationality"
	ColEval        = "Eval"
)

// StatCode is a short rider ability column such as "MO" (mountain).
type StatCode struct {
	Code  string
	Label string
}

// StatCodes lists the ability columns in export order. Eval is the mean of
// whichever of these are present.
var StatCodes = []StatCode{
	{"FL", "Flat"},
	{"MO", "Mountain"},
	{"HL", "Hill"},
	{"BA", "Baroudeur"},
	{"DH", "Downhill"},
	{"CS", "Cobblestones"},
	{"TT", "Time Trial"},
	{"PR", "Prologue"},
	{"SP", "Sprint"},
	{"AC", "Acceleration"},
	{"ST", "Stamina"},
	{"RS", "Resistance"},
	{"RC", "Recovery"},
}

var columnLabels = map[string]string{
	ColName:        "Rider Name",
	ColTeam:        "Team Name",
	ColAge:         "Age",
	ColNationality: "Nationality",
	ColEval:        "Evaluation",
}

func init() {
	for _, sc := range StatCodes {
		columnLabels[sc.Code] = sc.Label
	}
}

// ColumnLabel returns the display label for a column, or the name itself
// when no label is known.
func ColumnLabel(name string) string {
	if l, ok := columnLabels[name]; ok {
		return l
	}
	return name
}

// IsStatCode reports whether name is one of the ability columns.
func IsStatCode(name string) bool {
	for _, sc := range StatCodes {
		if sc.Code == name {
			return true
		}
	}
	return false
}
