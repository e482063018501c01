package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/domain"
)

// MetaHandler exposes the static search space: the genre vocabulary and the
// available (strategy, model) collections.
type MetaHandler struct {
	genres []string
	models []string
}

// NewMetaHandler creates a new meta handler.
func NewMetaHandler(genres, models []string) *MetaHandler {
	return &MetaHandler{
		genres: genres,
		models: models,
	}
}

// GetGenres handles GET /api/v1/genres.
func (h *MetaHandler) GetGenres(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"genres": h.genres,
		"total":  len(h.genres),
	})
}

// collectionInfo describes one searchable collection.
type collectionInfo struct {
	ChunkingStrategy string `json:"chunking_strategy"`
	EmbeddingModel   string `json:"embedding_model"`
	Collection       string `json:"collection"`
}

// GetCollections handles GET /api/v1/collections.
func (h *MetaHandler) GetCollections(c *gin.Context) {
	var collections []collectionInfo
	for _, strategy := range domain.ChunkingStrategies {
		for _, model := range h.models {
			collections = append(collections, collectionInfo{
				ChunkingStrategy: strategy,
				EmbeddingModel:   model,
				Collection:       domain.CollectionName(strategy, model),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
		"total":       len(collections),
	})
}
