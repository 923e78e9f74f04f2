package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wnzid/posterscoop-backend/internal/performance"
	"github.com/wnzid/posterscoop-backend/internal/validation"
)

// RegisterPerformanceRoutes registers the product-performance counter API.
// Recorded events are forwarded to the analytics queue best-effort; a
// publish failure never fails the request.
func RegisterPerformanceRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := performance.NewStore(cfg.DB)

	r.POST("/api/product-performance", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.PerformanceEventRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		if err := store.Record(ctx, req.DesignID); err != nil {
			log.Printf("record performance event: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record event"})
			return
		}

		if cfg.Publisher != nil {
			payload, _ := json.Marshal(map[string]interface{}{
				"design_id": req.DesignID,
				"event":     "view",
			})
			attrs := map[string]string{
				"design_id":      strconv.FormatUint(uint64(req.DesignID), 10),
				"correlation_id": c.GetHeader("X-Request-Id"),
			}
			if err := cfg.Publisher.SendDesignEvent(ctx, string(payload), attrs); err != nil {
				log.Printf("publish design event: %v", err)
			}
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Recorded"})
	})

	r.GET("/api/product-performance", func(c *gin.Context) {
		stats, err := store.List(c.Request.Context())
		if err != nil {
			log.Printf("list performance stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list stats"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})
}
