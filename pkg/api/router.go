package api

import (
	"log/slog"
	"time"

	"readstash-go/pkg/api/handlers"
	"readstash-go/pkg/api/middleware"
	"readstash-go/pkg/config"
	"readstash-go/pkg/db"
	"readstash-go/pkg/extractor"
	"readstash-go/pkg/llm"
	"readstash-go/pkg/services"

	"github.com/gin-gonic/gin"
)

func NewRouter(database *db.DB, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	// Initialize services
	extractorClient := extractor.NewClient(
		cfg.Extractor.BaseURL,
		extractor.Schema(cfg.Extractor.Schema),
		time.Duration(cfg.Extractor.TimeoutSeconds)*time.Second,
	)

	var languageModel services.LanguageModel
	if cfg.LLM.APIKey != "" {
		languageModel = llm.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.Model)
	}

	itemService := services.NewItemService(database, extractorClient, languageModel, logger)
	productService := services.NewProductService(database)

	// Middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Saved items
		items := v1.Group("/items")
		items.Use(middleware.RequireAuth(database))
		{
			items.GET("", handlers.ListItems(itemService))
			items.GET("/:id", handlers.GetItem(itemService))
			items.POST("/scrape", handlers.ScrapeItem(itemService))
			items.POST("/bulk-scrape", handlers.BulkScrapeItems(itemService))
			items.POST("/:id/summary", handlers.SaveSummary(itemService))
			items.POST("/:id/summarize", handlers.SummarizeItem(itemService))
		}

		// Discovery
		discover := v1.Group("/discover")
		discover.Use(middleware.RequireAuth(database))
		{
			discover.POST("/map", handlers.MapSite(itemService))
			discover.POST("/search", handlers.SearchWeb(itemService))
		}

		// JSON imports
		imports := v1.Group("/imports/json")
		imports.Use(middleware.RequireAuth(database))
		{
			imports.POST("", handlers.ImportJSON(productService))
			imports.GET("", handlers.ListImportedProducts(productService))
			imports.DELETE("", handlers.DeleteImportedProducts(productService))
		}

		// Users
		users := v1.Group("/users")
		{
			users.POST("", handlers.CreateUser(database))
			users.GET("/me", middleware.RequireAuth(database), handlers.GetCurrentUser())
		}
	}

	return router
}
