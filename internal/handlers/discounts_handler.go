package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wnzid/posterscoop-backend/internal/discounts"
	"github.com/wnzid/posterscoop-backend/internal/validation"
)

func serializePosterDiscount(d discounts.PosterDiscount) gin.H {
	return gin.H{
		"id":         d.ID,
		"posterType": d.PosterType,
		"size":       d.Size,
		"percent":    d.Percent,
		"amount":     d.Amount,
	}
}

func serializePromoCode(p discounts.PromoCode) gin.H {
	return gin.H{
		"id":      p.ID,
		"code":    p.Code,
		"percent": p.Percent,
		"amount":  p.Amount,
	}
}

// RegisterDiscountsRoutes registers the poster-discount and promo-code API.
func RegisterDiscountsRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := discounts.NewStore(cfg.DB)

	r.POST("/api/discounts/posters", func(c *gin.Context) {
		var req validation.PosterDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		var missing []string
		if req.ResolvedPosterType() == "" {
			missing = append(missing, "poster_type")
		}
		if req.Size == "" {
			missing = append(missing, "size")
		}
		if len(missing) > 0 {
			verr := &validation.MissingFieldsError{Fields: missing}
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}

		d, err := store.CreatePosterDiscount(c.Request.Context(), discounts.PosterDiscount{
			PosterType: req.ResolvedPosterType(),
			Size:       req.Size,
			Percent:    req.Percent,
			Amount:     req.Amount,
		})
		if err != nil {
			log.Printf("create poster discount: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create discount"})
			return
		}
		c.JSON(http.StatusCreated, serializePosterDiscount(*d))
	})

	r.GET("/api/discounts/posters", func(c *gin.Context) {
		list, err := store.ListPosterDiscounts(c.Request.Context())
		if err != nil {
			log.Printf("list poster discounts: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list discounts"})
			return
		}
		response := make([]gin.H, 0, len(list))
		for _, d := range list {
			response = append(response, serializePosterDiscount(d))
		}
		c.JSON(http.StatusOK, response)
	})

	r.DELETE("/api/discounts/posters/:id", func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		err := store.DeletePosterDiscount(c.Request.Context(), id)
		switch {
		case errors.Is(err, discounts.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Discount not found"})
		case err != nil:
			log.Printf("delete poster discount %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete discount"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
		}
	})

	r.POST("/api/discounts/promo", func(c *gin.Context) {
		var req validation.PromoCodeRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		p, err := store.CreatePromoCode(c.Request.Context(), discounts.PromoCode{
			Code:    req.Code,
			Percent: req.Percent,
			Amount:  req.Amount,
		})
		if errors.Is(err, discounts.ErrCodeExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Code already exists"})
			return
		}
		if err != nil {
			log.Printf("create promo code: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create promo code"})
			return
		}
		c.JSON(http.StatusCreated, serializePromoCode(*p))
	})

	r.GET("/api/discounts/promo", func(c *gin.Context) {
		list, err := store.ListPromoCodes(c.Request.Context())
		if err != nil {
			log.Printf("list promo codes: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list promo codes"})
			return
		}
		response := make([]gin.H, 0, len(list))
		for _, p := range list {
			response = append(response, serializePromoCode(p))
		}
		c.JSON(http.StatusOK, response)
	})

	r.DELETE("/api/discounts/promo/:id", func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		err := store.DeletePromoCode(c.Request.Context(), id)
		switch {
		case errors.Is(err, discounts.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
		case err != nil:
			log.Printf("delete promo code %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete promo code"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
		}
	})
}
