package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"readstash-go/pkg/db"
	"readstash-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListItems lists all saved items for the authenticated user, newest first
func ListItems(service *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		items, err := service.ListItems(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// GetItem retrieves a single saved item
func GetItem(service *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
			return
		}

		item, err := service.GetItem(c.Request.Context(), itemID, userID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// ScrapeItem runs the single-URL scrape flow. The response is always the
// final persisted record; a failed extraction shows up as the record's
// FAILED status, not as an HTTP error.
func ScrapeItem(service *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		var req struct {
			URL string `json:"url" binding:"required,url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item, err := service.ScrapeURL(c.Request.Context(), userID, req.URL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"item": item})
	}
}

// BulkScrapeItems runs the bulk scrape orchestrator and streams one
// newline-delimited JSON progress event per URL as it completes. The client
// reads the body incrementally; nothing is buffered until the batch is done.
func BulkScrapeItems(service *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		var req struct {
			URLs []string `json:"urls" binding:"required,min=1,dive,url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		progress, err := service.BulkScrape(c.Request.Context(), userID, req.URLs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Type", "application/x-ndjson")
		c.Header("Cache-Control", "no-cache")
		c.Status(http.StatusOK)

		// Encode and flush each event as it arrives; the client reads the
		// body incrementally while the batch is still running.
		enc := json.NewEncoder(c.Writer)
		for {
			select {
			case event, ok := <-progress:
				if !ok {
					return
				}
				if err := enc.Encode(event); err != nil {
					return
				}
				c.Writer.Flush()
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}

// SaveSummary stores a summary on an item and generates its tags
func SaveSummary(service *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
			return
		}

		var req struct {
			Summary string `json:"summary" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item, err := service.SaveSummaryAndTags(c.Request.Context(), itemID, userID, req.Summary)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// SummarizeItem generates a summary of the item's content via the language
// model and persists it together with derived tags
func SummarizeItem(service *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item ID"})
			return
		}

		item, err := service.SummarizeItem(c.Request.Context(), itemID, userID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// MapSite discovers candidate URLs under a site for bulk importing
func MapSite(service *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			URL    string `json:"url" binding:"required,url"`
			Search string `json:"search"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		links, err := service.MapURL(c.Request.Context(), req.URL, req.Search)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"links": links})
	}
}

// SearchWeb runs a topic search through the extraction service
func SearchWeb(service *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Query string `json:"query" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		results, err := service.SearchWeb(c.Request.Context(), req.Query)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}
