package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/api/handler"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/api/middleware"
	"github.com/Tsalyk/RAG-based-system-for-explainable-Movie-Search/internal/service"
)

// RouterConfig carries everything the router wires into handlers.
type RouterConfig struct {
	Mode     string
	CORS     middleware.CORSConfig
	Defaults handler.SearchDefaults
	Genres   []string
	Models   []string
}

// SetupRouter configures the Gin router with all routes.
func SetupRouter(
	searchService *service.SearchService,
	ragService *service.RAGService,
	cfg *RouterConfig,
) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	healthHandler := handler.NewHealthHandler()
	searchHandler := handler.NewSearchHandler(searchService, cfg.Defaults)
	recommendHandler := handler.NewRecommendHandler(ragService, cfg.Defaults)
	metaHandler := handler.NewMetaHandler(cfg.Genres, cfg.Models)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/search_movies", searchHandler.SearchMovies)
		v1.POST("/recommend", recommendHandler.Recommend)
		v1.GET("/genres", metaHandler.GetGenres)
		v1.GET("/collections", metaHandler.GetCollections)
	}

	return r
}
