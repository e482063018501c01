package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/service"
)

// SearchHandler handles similarity search endpoints.
type SearchHandler struct {
	searchService *service.SearchService
	defaults      SearchDefaults
}

// SearchDefaults fill in request fields the client leaves empty.
type SearchDefaults struct {
	Strategy string
	Model    string
	MinScore float32
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searchService *service.SearchService, defaults SearchDefaults) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		defaults:      defaults,
	}
}

// SearchMetadata carries the extracted or client-supplied filter. Years come
// as strings because the upstream extraction model emits them quoted; they
// are coerced, not validated.
type SearchMetadata struct {
	Title   string `json:"title"`
	Genre   string `json:"genre"`
	MinYear string `json:"min_year"`
	MaxYear string `json:"max_year"`
}

// SearchRequest is the body of POST /api/v1/search_movies.
type SearchRequest struct {
	Query              string         `json:"query" binding:"required"`
	ChunkingStrategy   string         `json:"chunking_strategy"`
	EmbeddingModel     string         `json:"embedding_model"`
	Metadata           SearchMetadata `json:"metadata"`
	K                  int            `json:"k"`
	MinSimilarityScore *float32       `json:"min_similarity_score"`
}

// SearchResponse is the body returned by POST /api/v1/search_movies.
type SearchResponse struct {
	Movies []domain.SearchResult `json:"movies"`
	Total  int                   `json:"total"`
}

// SearchMovies handles POST /api/v1/search_movies.
func (h *SearchHandler) SearchMovies(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	strategy := req.ChunkingStrategy
	if strategy == "" {
		strategy = h.defaults.Strategy
	}
	model := req.EmbeddingModel
	if model == "" {
		model = h.defaults.Model
	}
	k := req.K
	if k <= 0 {
		k = 10
	}
	minScore := h.defaults.MinScore
	if req.MinSimilarityScore != nil {
		minScore = *req.MinSimilarityScore
	}

	filter := domain.QueryFilter{
		Title:   req.Metadata.Title,
		Genre:   req.Metadata.Genre,
		MinYear: domain.CoerceYear(req.Metadata.MinYear, domain.DefaultMinYear),
		MaxYear: domain.CoerceYear(req.Metadata.MaxYear, domain.DefaultMaxYear),
	}

	results, err := h.searchService.Search(c.Request.Context(), strategy, model, req.Query, &filter, k, minScore)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": "Search failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Movies: results,
		Total:  len(results),
	})
}
