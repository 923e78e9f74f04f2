package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// StripCustomOrderRefs removes the line-item links to a deleted custom
// order from every order that mentions it. Affected orders are resolved
// through the indexed order_custom_refs rows, with a serialized-items scan
// ORed in to repair rows written before the ref table existed. Each line
// item keeps its other fields; an order is persisted only when a link was
// actually removed, so running this twice for the same code is a no-op the
// second time.
func (s *Store) StripCustomOrderRefs(ctx context.Context, code string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&OrderCustomRef{}).
			Select("order_id").
			Where("custom_order_code = ?", code)

		var affected []Order
		err := tx.Where("id IN (?)", sub).
			Or("items LIKE ?", "%"+code+"%").
			Find(&affected).Error
		if err != nil {
			return fmt.Errorf("find referencing orders: %w", err)
		}

		for i := range affected {
			order := &affected[i]
			items, err := order.LineItems(false)
			if err != nil {
				return fmt.Errorf("decode items for order %d: %w", order.ID, err)
			}

			changed := false
			for _, item := range items {
				if ref, ok := item[refKey].(string); ok && ref == code {
					delete(item, refKey)
					changed = true
				}
			}
			if !changed {
				continue
			}

			raw, err := json.Marshal(items)
			if err != nil {
				return fmt.Errorf("encode items for order %d: %w", order.ID, err)
			}
			if err := tx.Model(order).Update("items", string(raw)).Error; err != nil {
				return fmt.Errorf("patch order %d: %w", order.ID, err)
			}
		}

		if err := tx.Where("custom_order_code = ?", code).Delete(&OrderCustomRef{}).Error; err != nil {
			return fmt.Errorf("delete custom refs: %w", err)
		}
		return nil
	})
}
