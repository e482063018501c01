package repository

import (
	"testing"

	pb "github.com/qdrant/go-client/qdrant"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

func TestBuildQdrantFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     *domain.QueryFilter
		wantConds  int
		wantNil    bool
		checkConds func(t *testing.T, conds []*pb.Condition)
	}{
		{
			name:    "nil filter",
			filter:  nil,
			wantNil: true,
		},
		{
			name:    "empty filter",
			filter:  &domain.QueryFilter{},
			wantNil: true,
		},
		{
			name:    "default year bounds are not conditions",
			filter:  &domain.QueryFilter{MinYear: domain.DefaultMinYear, MaxYear: domain.DefaultMaxYear},
			wantNil: true,
		},
		{
			name:      "genre becomes one-hot flag match",
			filter:    &domain.QueryFilter{Genre: "horror"},
			wantConds: 1,
			checkConds: func(t *testing.T, conds []*pb.Condition) {
				field := conds[0].GetField()
				if field.GetKey() != "genre_horror" {
					t.Errorf("key = %q, want genre_horror", field.GetKey())
				}
				if !field.GetMatch().GetBoolean() {
					t.Error("expected boolean true match")
				}
			},
		},
		{
			name:      "min year becomes gte range",
			filter:    &domain.QueryFilter{MinYear: 2010},
			wantConds: 1,
			checkConds: func(t *testing.T, conds []*pb.Condition) {
				field := conds[0].GetField()
				if field.GetKey() != "year" {
					t.Errorf("key = %q, want year", field.GetKey())
				}
				r := field.GetRange()
				if r == nil || r.Gte == nil || *r.Gte != 2010 {
					t.Errorf("expected gte 2010 range, got %v", r)
				}
				if r.Lte != nil {
					t.Error("max year must not be applied on this backend")
				}
			},
		},
		{
			name:      "genre and year combine as must",
			filter:    &domain.QueryFilter{Genre: "sci-fi", MinYear: 1999, MaxYear: 2005},
			wantConds: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQdrantFilter(tt.filter)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil filter, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a filter, got nil")
			}
			if len(got.Must) != tt.wantConds {
				t.Fatalf("got %d conditions, want %d", len(got.Must), tt.wantConds)
			}
			if tt.checkConds != nil {
				tt.checkConds(t, got.Must)
			}
		})
	}
}

func TestParseRecordMetadata(t *testing.T) {
	payload := map[string]*pb.Value{
		"movie_id":    {Kind: &pb.Value_StringValue{StringValue: "7a3c"}},
		"title":       {Kind: &pb.Value_StringValue{StringValue: "Alien"}},
		"year":        {Kind: &pb.Value_IntegerValue{IntegerValue: 1979}},
		"description": {Kind: &pb.Value_StringValue{StringValue: "A crew answers a distress call."}},
		"genres": {Kind: &pb.Value_ListValue{ListValue: &pb.ListValue{Values: []*pb.Value{
			{Kind: &pb.Value_StringValue{StringValue: "horror"}},
			{Kind: &pb.Value_StringValue{StringValue: "sci-fi"}},
		}}}},
	}

	meta := parseRecordMetadata(payload)
	if meta.MovieID != "7a3c" || meta.Title != "Alien" || meta.Year != 1979 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if len(meta.Genres) != 2 || meta.Genres[0] != "horror" {
		t.Errorf("unexpected genres: %v", meta.Genres)
	}
}

func TestParseRecordMetadataNilPayload(t *testing.T) {
	meta := parseRecordMetadata(nil)
	if meta == nil {
		t.Fatal("expected empty metadata, got nil")
	}
	if meta.Title != "" || meta.Year != 0 {
		t.Errorf("expected zero metadata, got %+v", meta)
	}
}
