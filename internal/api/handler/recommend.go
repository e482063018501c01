package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/service"
)

// RecommendHandler handles the end-to-end recommendation endpoint.
type RecommendHandler struct {
	ragService *service.RAGService
	defaults   SearchDefaults
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(ragService *service.RAGService, defaults SearchDefaults) *RecommendHandler {
	return &RecommendHandler{
		ragService: ragService,
		defaults:   defaults,
	}
}

// RecommendRequest is the body of POST /api/v1/recommend.
type RecommendRequest struct {
	Query            string `json:"query" binding:"required"`
	ChunkingStrategy string `json:"chunking_strategy"`
	EmbeddingModel   string `json:"embedding_model"`
}

// RecommendResponse is the body returned by POST /api/v1/recommend. Found is
// false when no movie clears the similarity floor even unfiltered; that is a
// valid outcome, not an error.
type RecommendResponse struct {
	Found bool                   `json:"found"`
	Movie *domain.Recommendation `json:"movie,omitempty"`
}

// Recommend handles POST /api/v1/recommend.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
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

	rec, err := h.ragService.Recommend(c.Request.Context(), req.Query, strategy, model)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			c.JSON(http.StatusOK, RecommendResponse{Found: false})
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": "Recommendation failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, RecommendResponse{Found: true, Movie: rec})
}
