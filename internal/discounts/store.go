package discounts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates an unknown discount or promo id.
	ErrNotFound = errors.New("discount not found")
	// ErrCodeExists indicates a duplicate promo code.
	ErrCodeExists = errors.New("promo code already exists")
)

// Store owns the poster-discount and promo-code lookup tables.
type Store struct {
	db *gorm.DB
}

// NewStore creates a discounts Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreatePosterDiscount persists a poster-type/size discount.
func (s *Store) CreatePosterDiscount(ctx context.Context, d PosterDiscount) (*PosterDiscount, error) {
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, fmt.Errorf("create poster discount: %w", err)
	}
	return &d, nil
}

// ListPosterDiscounts returns all poster discounts.
func (s *Store) ListPosterDiscounts(ctx context.Context) ([]PosterDiscount, error) {
	var list []PosterDiscount
	if err := s.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list poster discounts: %w", err)
	}
	return list, nil
}

// DeletePosterDiscount removes a poster discount by id.
func (s *Store) DeletePosterDiscount(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&PosterDiscount{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete poster discount: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePromoCode persists a promo code, rejecting duplicates.
func (s *Store) CreatePromoCode(ctx context.Context, p PromoCode) (*PromoCode, error) {
	err := s.db.WithContext(ctx).Create(&p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrCodeExists
	}
	if err != nil {
		return nil, fmt.Errorf("create promo code: %w", err)
	}
	return &p, nil
}

// ListPromoCodes returns all promo codes.
func (s *Store) ListPromoCodes(ctx context.Context) ([]PromoCode, error) {
	var list []PromoCode
	if err := s.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list promo codes: %w", err)
	}
	return list, nil
}

// DeletePromoCode removes a promo code by id.
func (s *Store) DeletePromoCode(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&PromoCode{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete promo code: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
