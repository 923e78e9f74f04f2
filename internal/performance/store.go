package performance

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store owns the product_performances counter table.
type Store struct {
	db *gorm.DB
}

// NewStore creates a performance Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Record counts one view/purchase event for a design. The row is created
// lazily on the first event and incremented thereafter.
func (s *Store) Record(ctx context.Context, designID uint) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "design_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
	}).Create(&ProductPerformance{DesignID: designID, Count: 1}).Error
	if err != nil {
		return fmt.Errorf("record performance event: %w", err)
	}
	return nil
}

// Count returns the stored counter for a design, zero if none exists.
func (s *Store) Count(ctx context.Context, designID uint) (int, error) {
	var row ProductPerformance
	err := s.db.WithContext(ctx).Where("design_id = ?", designID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read performance counter: %w", err)
	}
	return row.Count, nil
}

// List returns every counter joined with its design title.
func (s *Store) List(ctx context.Context) ([]DesignStat, error) {
	var stats []DesignStat
	err := s.db.WithContext(ctx).
		Table("product_performances").
		Select("product_performances.design_id, designs.title, product_performances.count").
		Joins("LEFT JOIN designs ON designs.id = product_performances.design_id").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("list performance stats: %w", err)
	}
	return stats, nil
}
