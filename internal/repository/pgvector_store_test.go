package repository

import (
	"strings"
	"testing"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

func TestValidCollection(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"fixed_size_splitter_all_minilm_l6_v2", false},
		{"recursive_splitter_gtr_t5_base", false},
		{"movies; DROP TABLE movies", true},
		{"Movies", true},
		{"", true},
		{"a-b", true},
	}

	for _, tt := range tests {
		err := validCollection(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("validCollection(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !strings.Contains(err.Error(), "invalid collection name") {
			t.Errorf("unexpected error text: %v", err)
		}
	}
}

func TestBuildSearchQuery(t *testing.T) {
	t.Run("without genre", func(t *testing.T) {
		sql, args := buildSearchQuery("fixed_size_splitter_gtr_t5_base", &domain.QueryFilter{MinYear: 2000}, 5)

		if args != 5 {
			t.Errorf("expected 5 placeholders, got %d", args)
		}
		if !strings.Contains(sql, "FROM fixed_size_splitter_gtr_t5_base") {
			t.Errorf("missing table name: %s", sql)
		}
		if !strings.Contains(sql, "1 - (embedding <=> $1) > $2") {
			t.Errorf("similarity floor must be strict: %s", sql)
		}
		if !strings.Contains(sql, "year >= $3 AND year <= $4") {
			t.Errorf("missing year range: %s", sql)
		}
		if strings.Contains(sql, "ANY(genres)") {
			t.Errorf("genre clause must be absent: %s", sql)
		}
		if !strings.Contains(sql, "ORDER BY similarity DESC LIMIT $5") {
			t.Errorf("missing ordering and limit: %s", sql)
		}
	})

	t.Run("with genre", func(t *testing.T) {
		sql, args := buildSearchQuery("semantic_splitter_all_minilm_l6_v2", &domain.QueryFilter{Genre: "drama"}, 3)

		if args != 6 {
			t.Errorf("expected 6 placeholders, got %d", args)
		}
		if !strings.Contains(sql, "$5 = ANY(genres)") {
			t.Errorf("missing parameterized genre clause: %s", sql)
		}
		if !strings.Contains(sql, "LIMIT $6") {
			t.Errorf("limit placeholder must follow genre: %s", sql)
		}
		if strings.Contains(sql, "drama") {
			t.Errorf("genre value must not be interpolated: %s", sql)
		}
	})
}
