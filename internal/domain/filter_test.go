package domain

import "testing"

func TestCoerceYear(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   int
		want  int
	}{
		{name: "valid year", input: "2010", def: 0, want: 2010},
		{name: "empty string", input: "", def: DefaultMaxYear, want: DefaultMaxYear},
		{name: "whitespace", input: "  ", def: 0, want: 0},
		{name: "prose", input: "early 2000s", def: 0, want: 0},
		{name: "float", input: "2010.5", def: 0, want: 0},
		{name: "negative", input: "-5", def: 0, want: 0},
		{name: "padded", input: " 1994 ", def: 0, want: 1994},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceYear(tt.input, tt.def); got != tt.want {
				t.Errorf("CoerceYear(%q, %d) = %d, want %d", tt.input, tt.def, got, tt.want)
			}
		})
	}
}

func TestQueryFilterIsEmpty(t *testing.T) {
	if !EmptyFilter().IsEmpty() {
		t.Error("EmptyFilter should be empty")
	}
	if (QueryFilter{Genre: "horror"}).IsEmpty() {
		t.Error("filter with genre should not be empty")
	}
	if (QueryFilter{MinYear: 2010}).IsEmpty() {
		t.Error("filter with min year should not be empty")
	}
}

func TestQueryFilterYearRange(t *testing.T) {
	min, max := QueryFilter{}.YearRange()
	if min != DefaultMinYear || max != DefaultMaxYear {
		t.Errorf("zero filter range = [%d, %d], want defaults", min, max)
	}

	min, max = QueryFilter{MinYear: 2010, MaxYear: 2015}.YearRange()
	if min != 2010 || max != 2015 {
		t.Errorf("range = [%d, %d], want [2010, 2015]", min, max)
	}
}
