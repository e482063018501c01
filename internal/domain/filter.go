package domain

import (
	"strconv"
	"strings"
)

// Year bounds used when a query does not constrain the release year, or when
// the extracted bound does not parse as a number.
const (
	DefaultMinYear = 0
	DefaultMaxYear = 2100
)

// QueryFilter is the structured metadata extracted from a free-text query.
// All fields are optional; zero values mean "unconstrained". Genre holds at
// most one value. When a query mentions several genres, extraction keeps
// exactly one.
type QueryFilter struct {
	Title   string `json:"title,omitempty"`
	Genre   string `json:"genre,omitempty"`
	MinYear int    `json:"min_year,omitempty"`
	MaxYear int    `json:"max_year,omitempty"`
}

// EmptyFilter returns a filter with no constraints and wide-open year bounds.
func EmptyFilter() QueryFilter {
	return QueryFilter{MinYear: DefaultMinYear, MaxYear: DefaultMaxYear}
}

// IsEmpty reports whether the filter constrains anything beyond the default
// wide-open year range.
func (f QueryFilter) IsEmpty() bool {
	return f.Title == "" && f.Genre == "" &&
		f.MinYear <= DefaultMinYear && (f.MaxYear == 0 || f.MaxYear >= DefaultMaxYear)
}

// YearRange returns the effective [min, max] year bounds, substituting
// defaults for unset values.
func (f QueryFilter) YearRange() (int, int) {
	min, max := f.MinYear, f.MaxYear
	if min <= 0 {
		min = DefaultMinYear
	}
	if max <= 0 {
		max = DefaultMaxYear
	}
	return min, max
}

// CoerceYear parses a year extracted from model output. Empty or malformed
// strings coerce to def instead of failing: extraction must never abort the
// pipeline over a bad number.
func CoerceYear(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
