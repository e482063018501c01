package domain

// MovieRecord is one row of the source dataset. Records are immutable once
// read: the ingestion pipeline never mutates them, it only derives chunks.
type MovieRecord struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
}

// Chunk is a contiguous segment of a movie description. All chunks of one
// movie share the same MovieID; Index is the chunk's position within the
// description.
type Chunk struct {
	MovieID string
	Index   int
	Text    string
}

// RecordMetadata is the metadata attached to every indexed chunk. Backends
// may encode Genres differently on the wire (raw list vs. one flag per known
// genre) but always reconstruct this shape on read.
type RecordMetadata struct {
	MovieID     string   `json:"movie_id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
}

// IndexedRecord is the unit persisted in a vector store collection.
// The embedding dimensionality must match the collection's configured
// dimension; a mismatch is a hard ingestion error.
type IndexedRecord struct {
	ID        string
	Embedding []float32
	Metadata  RecordMetadata
}

// SearchResult is one hit of a similarity search against a collection.
// Ephemeral, never persisted.
type SearchResult struct {
	MovieID     string   `json:"movie_id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	Similarity  float32  `json:"similarity"`
}

// Recommendation is the terminal output of the RAG pipeline: the matched
// movie plus a generated natural-language justification.
type Recommendation struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	Reasoning   string   `json:"reasoning"`
	Similarity  float32  `json:"similarity"`
}
