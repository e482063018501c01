package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/llm"
)

type fakeGenerator struct {
	output string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ llm.SamplingParams) (string, error) {
	f.prompt = prompt
	return f.output, f.err
}

var testGenres = []string{"action", "comedy", "drama", "horror", "sci-fi"}

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   domain.QueryFilter
	}{
		{
			name:   "well formed dict",
			output: "{'title': '', 'genre': 'horror', 'min_year': '2010', 'max_year': '', 'query': 'a horror movie from 2010'}",
			want:   domain.QueryFilter{Genre: "horror", MinYear: 2010, MaxYear: domain.DefaultMaxYear},
		},
		{
			name:   "doubled braces",
			output: "{{'title': 'Alien', 'genre': 'sci-fi', 'min_year': '', 'max_year': ''}}",
			want:   domain.QueryFilter{Title: "Alien", Genre: "sci-fi", MinYear: domain.DefaultMinYear, MaxYear: domain.DefaultMaxYear},
		},
		{
			name:   "dict wrapped in prose",
			output: "Sure! Here is the extracted information:\n{'title': '', 'genre': 'comedy', 'min_year': '1990', 'max_year': '1999'}\nHope this helps.",
			want:   domain.QueryFilter{Genre: "comedy", MinYear: 1990, MaxYear: 1999},
		},
		{
			name:   "genre outside vocabulary dropped",
			output: "{'title': '', 'genre': 'romcom', 'min_year': '', 'max_year': ''}",
			want:   domain.EmptyFilter(),
		},
		{
			name:   "multiple genres keep first valid",
			output: "{'title': '', 'genre': 'feel-good, drama', 'min_year': '', 'max_year': ''}",
			want:   domain.QueryFilter{Genre: "drama", MinYear: domain.DefaultMinYear, MaxYear: domain.DefaultMaxYear},
		},
		{
			name:   "malformed year coerces to default",
			output: "{'title': '', 'genre': 'action', 'min_year': 'the nineties', 'max_year': 'soonish'}",
			want:   domain.QueryFilter{Genre: "action", MinYear: domain.DefaultMinYear, MaxYear: domain.DefaultMaxYear},
		},
		{
			name:   "stray closing brace before the dict",
			output: "Understood}\n{'title': '', 'genre': 'horror', 'min_year': '2010', 'max_year': ''}",
			want:   domain.QueryFilter{Genre: "horror", MinYear: 2010, MaxYear: domain.DefaultMaxYear},
		},
		{
			name:   "no dict at all",
			output: "I could not determine any structured information from that query.",
			want:   domain.EmptyFilter(),
		},
		{
			name:   "apostrophe inside quoted value",
			output: "{'title': '', 'genre': '', 'min_year': '', 'max_year': '', 'query': 'I don't know'}",
			want:   domain.EmptyFilter(),
		},
		{
			name:   "empty output",
			output: "",
			want:   domain.EmptyFilter(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewMetadataExtractor(&fakeGenerator{output: tt.output}, testGenres)
			got := e.Extract(context.Background(), "some query")
			if got != tt.want {
				t.Errorf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractGenerationFailure(t *testing.T) {
	e := NewMetadataExtractor(&fakeGenerator{err: errors.New("server down")}, testGenres)
	got := e.Extract(context.Background(), "a thriller about chess")
	if got != domain.EmptyFilter() {
		t.Errorf("expected empty filter on generation failure, got %+v", got)
	}
}

func TestExtractPromptContainsQueryAndGenres(t *testing.T) {
	gen := &fakeGenerator{output: "{}"}
	e := NewMetadataExtractor(gen, testGenres)
	e.Extract(context.Background(), "a space western")

	for _, want := range []string{"a space western", "horror", "sci-fi"} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt is missing %q", want)
		}
	}
}
