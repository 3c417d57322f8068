package handlers

import (
	"net/http"

	"readstash-go/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImportJSON imports products from a pasted retailer JSON payload
func ImportJSON(service *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		var req struct {
			URL  string `json:"url" binding:"required,url"`
			JSON string `json:"json" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		count, err := service.ImportJSON(c.Request.Context(), userID, req.URL, req.JSON)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "imported": count})
	}
}

// ListImportedProducts lists the user's imported products
func ListImportedProducts(service *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		products, err := service.ListProducts(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

// DeleteImportedProducts wipes all imported products for the user
func DeleteImportedProducts(service *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		if err := service.DeleteProducts(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
