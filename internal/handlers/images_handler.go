package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// presignTTL bounds how long issued image URLs stay valid.
const presignTTL = time.Hour

// RegisterImageRoutes registers the presigned image URL endpoint. The
// bucket itself is private; the storefront fetches short-lived URLs here.
func RegisterImageRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.GET("/api/image/*key", func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if key == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		url, err := cfg.Blob.PresignGet(c.Request.Context(), key, presignTTL)
		if err != nil {
			log.Printf("presign %s: %v", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not sign image URL"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	})
}
