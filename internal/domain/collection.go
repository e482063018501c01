package domain

import "strings"

// Chunking strategy identifiers. Each (strategy, embedding model) pair owns
// one vector store collection.
const (
	StrategyFixedSize = "fixed-size-splitter"
	StrategyRecursive = "recursive-splitter"
	StrategySemantic  = "semantic-splitter"
)

// ChunkingStrategies lists every supported strategy, in ingestion order.
var ChunkingStrategies = []string{
	StrategyFixedSize,
	StrategyRecursive,
	StrategySemantic,
}

// KnownStrategy reports whether name is a supported chunking strategy.
func KnownStrategy(name string) bool {
	for _, s := range ChunkingStrategies {
		if s == name {
			return true
		}
	}
	return false
}

// CollectionName derives the collection (or table) name for a
// (chunking strategy, embedding model) pair. The derivation must be bit-exact
// across callers: independent processes address the same collection by
// re-deriving the name, e.g.
//
//	("fixed-size-splitter", "all-MiniLM-L6-v2") -> "fixed_size_splitter_all_minilm_l6_v2"
func CollectionName(strategy, model string) string {
	name := strings.ToLower(strategy + "_" + model)
	return strings.ReplaceAll(name, "-", "_")
}
