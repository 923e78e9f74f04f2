package validation

import (
	"fmt"
	"strings"
)

// MissingFieldsError lists every required field absent from a request. Its
// message matches the storefront's error contract.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("Missing fields: %s", strings.Join(e.Fields, ", "))
}

// CreateOrderRequest is the payload for POST /api/orders. Presence, not
// non-emptiness, is required for items and total_price: an empty cart with
// a zero total is a valid order, an absent one is not. The contact fields
// must be non-empty.
type CreateOrderRequest struct {
	Name          string                    `json:"name" validate:"required"`
	Phone         string                    `json:"phone" validate:"required"`
	Address       string                    `json:"address" validate:"required"`
	City          string                    `json:"city" validate:"required"`
	PostalCode    string                    `json:"postal_code"`
	Email         string                    `json:"email"`
	PaymentMethod string                    `json:"payment_method"`
	Items         *[]map[string]interface{} `json:"items" validate:"required"`
	TotalPrice    *float64                  `json:"total_price" validate:"required"`
}

// UpdateStatusRequest is the payload for PATCH /api/orders/:id.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PromoCodeRequest is the payload for POST /api/discounts/promo.
type PromoCodeRequest struct {
	Code    string  `json:"code" validate:"required"`
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
}

// PosterDiscountRequest is the payload for POST /api/discounts/posters.
// Both snake_case and camelCase poster-type keys are accepted, as the
// storefront has sent both over time.
type PosterDiscountRequest struct {
	PosterType    string  `json:"poster_type"`
	PosterTypeAlt string  `json:"posterType"`
	Size          string  `json:"size"`
	Percent       float64 `json:"percent"`
	Amount        float64 `json:"amount"`
}

// ResolvedPosterType merges the two accepted poster-type keys.
func (r PosterDiscountRequest) ResolvedPosterType() string {
	if r.PosterType != "" {
		return r.PosterType
	}
	return r.PosterTypeAlt
}

// CredentialsRequest is the payload for /api/register and /api/login.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountUpdateRequest is the payload for PATCH /api/user.
type AccountUpdateRequest struct {
	Email       string  `json:"email" validate:"required"`
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Password    string  `json:"password"`
	NewPassword string  `json:"new_password"`
}

// CategoryRequest is the payload for POST /api/categories.
type CategoryRequest struct {
	Name         string `json:"name" validate:"required"`
	MainCategory string `json:"main_category" validate:"required"`
}

// PerformanceEventRequest is the payload for POST /api/product-performance.
type PerformanceEventRequest struct {
	DesignID uint `json:"design_id" validate:"required"`
}
