package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wnzid/posterscoop-backend/internal/custom"
	"github.com/wnzid/posterscoop-backend/internal/orders"
	"github.com/wnzid/posterscoop-backend/internal/validation"
)

// RegisterCustomOrdersRoutes registers the custom-order upload API.
func RegisterCustomOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	store := custom.NewStore(cfg.DB, cfg.Blob, orders.NewStore(cfg.DB))

	r.POST("/api/custom-orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		posterType := c.PostForm("poster_type")
		size := c.PostForm("size")
		thickness := c.PostForm("thickness")
		fileHeader, fileErr := c.FormFile("file")

		var missing []string
		if posterType == "" {
			missing = append(missing, "poster_type")
		}
		if size == "" {
			missing = append(missing, "size")
		}
		if thickness == "" {
			missing = append(missing, "thickness")
		}
		if fileErr != nil {
			missing = append(missing, "file")
		}
		if len(missing) > 0 {
			verr := &validation.MissingFieldsError{Fields: missing}
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}

		var userID *uint
		if raw := c.PostForm("user_id"); raw != "" {
			if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
				id := uint(v)
				userID = &id
			}
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
			return
		}
		defer file.Close()

		order, err := store.Submit(ctx, custom.Submission{
			UserID:      userID,
			PosterType:  posterType,
			Size:        size,
			Thickness:   thickness,
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}, file)
		if err != nil {
			log.Printf("submit custom order: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not submit custom order"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"order_code": order.OrderCode})
	})

	r.GET("/api/custom-orders", func(c *gin.Context) {
		list, err := store.List(c.Request.Context())
		if err != nil {
			log.Printf("list custom orders: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list custom orders"})
			return
		}

		response := make([]gin.H, 0, len(list))
		for _, o := range list {
			response = append(response, gin.H{
				"id":          o.ID,
				"order_code":  o.OrderCode,
				"user_id":     o.UserID,
				"poster_type": o.PosterType,
				"size":        o.Size,
				"thickness":   o.Thickness,
				"file_path":   o.FilePath,
				"status":      o.Status,
			})
		}
		c.JSON(http.StatusOK, response)
	})

	r.GET("/api/custom-orders/:code/download", func(c *gin.Context) {
		data, filename, err := store.Download(c.Request.Context(), c.Param("code"))
		switch {
		case errors.Is(err, custom.ErrNotFound), errors.Is(err, custom.ErrFileMissing):
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		case err != nil:
			log.Printf("download custom order: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not download file"})
		default:
			c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
			c.Data(http.StatusOK, "application/octet-stream", data)
		}
	})

	r.DELETE("/api/custom-orders/:code", func(c *gin.Context) {
		err := store.Delete(c.Request.Context(), c.Param("code"))
		switch {
		case errors.Is(err, custom.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Custom order not found"})
		case err != nil:
			log.Printf("delete custom order: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete custom order"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
		}
	})
}
