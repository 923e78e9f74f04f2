package discounts

import "time"

// PosterDiscount is a flat discount keyed by poster type and size,
// consulted by the storefront when pricing.
type PosterDiscount struct {
	ID         uint    `gorm:"primaryKey"`
	PosterType string  `gorm:"size:50;not null"`
	Size       string  `gorm:"size:50;not null"`
	Percent    float64 `gorm:"default:0"`
	Amount     float64 `gorm:"default:0"`
}

func (PosterDiscount) TableName() string { return "poster_discounts" }

// PromoCode is a checkout promo code. Codes are unique.
type PromoCode struct {
	ID        uint    `gorm:"primaryKey"`
	Code      string  `gorm:"size:50;uniqueIndex;not null"`
	Percent   float64 `gorm:"default:0"`
	Amount    float64 `gorm:"default:0"`
	CreatedAt time.Time
}

func (PromoCode) TableName() string { return "promo_codes" }
