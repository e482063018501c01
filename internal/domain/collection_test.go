package domain

import "testing"

func TestCollectionName(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		model    string
		want     string
	}{
		{
			name:     "fixed size with MiniLM",
			strategy: "fixed-size-splitter",
			model:    "all-MiniLM-L6-v2",
			want:     "fixed_size_splitter_all_minilm_l6_v2",
		},
		{
			name:     "recursive with bert",
			strategy: "recursive-splitter",
			model:    "bert-base-nli-mean-tokens",
			want:     "recursive_splitter_bert_base_nli_mean_tokens",
		},
		{
			name:     "semantic with gtr",
			strategy: "semantic-splitter",
			model:    "gtr-t5-base",
			want:     "semantic_splitter_gtr_t5_base",
		},
		{
			name:     "already normalized",
			strategy: "fixed_size",
			model:    "model",
			want:     "fixed_size_model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollectionName(tt.strategy, tt.model)
			if got != tt.want {
				t.Errorf("CollectionName(%q, %q) = %q, want %q", tt.strategy, tt.model, got, tt.want)
			}
		})
	}
}

func TestKnownStrategy(t *testing.T) {
	for _, s := range ChunkingStrategies {
		if !KnownStrategy(s) {
			t.Errorf("expected %q to be a known strategy", s)
		}
	}
	if KnownStrategy("token-splitter") {
		t.Error("expected token-splitter to be unknown")
	}
}
