package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wnzid/posterscoop-backend/internal/orders"
	"github.com/wnzid/posterscoop-backend/internal/validation"
)

// RegisterOrdersRoutes registers the checkout order API.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := orders.NewStore(cfg.DB)

	r.POST("/api/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote the 400
			return
		}

		order, err := store.Create(ctx, orders.NewOrder{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			City:          req.City,
			PostalCode:    req.PostalCode,
			PaymentMethod: req.PaymentMethod,
			Items:         *req.Items,
			TotalPrice:    *req.TotalPrice,
		})
		if err != nil {
			if errors.Is(err, orders.ErrCodeConflict) {
				c.JSON(http.StatusConflict, gin.H{"error": "Could not allocate an order code, please retry"})
				return
			}
			log.Printf("create order: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not place order"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "Order placed",
			"order_id": fmt.Sprintf("#%s", order.OrderCode),
		})
	})

	r.GET("/api/orders", func(c *gin.Context) {
		ctx := c.Request.Context()
		email := c.Query("email")

		list, err := store.List(ctx, email)
		if err != nil {
			log.Printf("list orders: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list orders"})
			return
		}

		response := make([]gin.H, 0, len(list))
		for i := range list {
			o := &list[i]
			// customer-facing views never see the custom-order markers
			items, err := o.LineItems(email != "")
			if err != nil {
				log.Printf("decode items for order %d: %v", o.ID, err)
				items = []map[string]interface{}{}
			}
			response = append(response, gin.H{
				"id":             o.ID,
				"order_code":     o.OrderCode,
				"name":           o.Name,
				"email":          o.Email,
				"phone":          o.Phone,
				"address":        o.Address,
				"city":           o.City,
				"postal_code":    o.PostalCode,
				"payment_method": o.PaymentMethod,
				"status":         o.Status,
				"items":          items,
				"total_price":    o.TotalPrice,
				"created_at":     o.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, response)
	})

	r.PATCH("/api/orders/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}

		var req validation.UpdateStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		_, err := store.UpdateStatus(ctx, id, req.Status)
		switch {
		case errors.Is(err, orders.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		case errors.Is(err, orders.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case err != nil:
			log.Printf("update order %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update order"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
		}
	})
}
