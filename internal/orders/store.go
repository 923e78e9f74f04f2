package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// codeSeqWidth is the zero-padded width of the per-partition sequence.
	// Overflowing it is a configuration limit and fails loudly.
	codeSeqWidth = 4
	maxSeq       = 9999

	// createAttempts bounds the retry loop around the unique-index safety
	// net on order_code.
	createAttempts = 3
)

var (
	// ErrNotFound indicates the order id is unknown.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidStatus indicates a status outside the valid set.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrSequenceExhausted indicates the partition ran out of 4-digit codes.
	ErrSequenceExhausted = errors.New("order code sequence exhausted for partition")
	// ErrCodeConflict indicates allocation kept colliding after retries.
	ErrCodeConflict = errors.New("order code conflict")
)

// Store encapsulates operations on the orders table.
type Store struct {
	db      *gorm.DB
	nowFunc func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:      db,
		nowFunc: time.Now,
	}
}

// Create allocates an order code and persists the order with its serialized
// items in a single transaction. Custom-order links found in the items are
// mirrored into order_custom_refs inside the same transaction, so a failure
// at any step leaves neither an orphaned code nor a dangling ref.
func (s *Store) Create(ctx context.Context, in NewOrder) (*Order, error) {
	if in.Items == nil {
		in.Items = []map[string]interface{}{}
	}
	raw, err := json.Marshal(in.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	var created *Order
	for attempt := 0; attempt < createAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			code, err := s.allocateCode(tx)
			if err != nil {
				return err
			}

			order := &Order{
				OrderCode:     code,
				Name:          in.Name,
				Email:         in.Email,
				Phone:         in.Phone,
				Address:       in.Address,
				City:          in.City,
				PostalCode:    in.PostalCode,
				PaymentMethod: paymentMethod,
				Status:        StatusPending,
				Items:         string(raw),
				TotalPrice:    in.TotalPrice,
				CreatedAt:     s.nowFunc().UTC(),
			}
			if err := tx.Create(order).Error; err != nil {
				return err
			}

			refs := collectRefs(order.ID, in.Items)
			if len(refs) > 0 {
				if err := tx.Create(&refs).Error; err != nil {
					return fmt.Errorf("create custom refs: %w", err)
				}
			}

			created = order
			return nil
		})
		if err == nil {
			return created, nil
		}
		// The unique index on order_code is the safety net under the
		// counter lock; retry the whole transaction on a collision.
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrCodeConflict, createAttempts, err)
}

// allocateCode derives the next order code for the current time partition.
// The upsert-increment takes a row lock on the partition's counter that is
// held until the surrounding transaction commits, serializing concurrent
// allocators; the read-back below therefore sees this caller's increment.
func (s *Store) allocateCode(tx *gorm.DB) (string, error) {
	partition := s.nowFunc().UTC().Format("06")

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "partition_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_seq": gorm.Expr("last_seq + 1")}),
	}).Create(&OrderCounter{Partition: partition, LastSeq: 1}).Error
	if err != nil {
		return "", fmt.Errorf("bump order counter: %w", err)
	}

	// struct condition so the column name renders quoted on every dialect
	var counter OrderCounter
	if err := tx.Where(&OrderCounter{Partition: partition}).Take(&counter).Error; err != nil {
		return "", fmt.Errorf("read order counter: %w", err)
	}

	if counter.LastSeq > maxSeq {
		return "", fmt.Errorf("%w %s: %d", ErrSequenceExhausted, partition, counter.LastSeq)
	}
	return fmt.Sprintf("%s%0*d", partition, codeSeqWidth, counter.LastSeq), nil
}

// collectRefs extracts the custom-order links from line items.
func collectRefs(orderID uint, items []map[string]interface{}) []OrderCustomRef {
	var refs []OrderCustomRef
	for _, item := range items {
		code, ok := item[refKey].(string)
		if !ok || code == "" {
			continue
		}
		refs = append(refs, OrderCustomRef{OrderID: orderID, CustomOrderCode: code})
	}
	return refs
}

// List returns orders, most recent first, optionally filtered by the
// customer's email.
func (s *Store) List(ctx context.Context, email string) ([]Order, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if email != "" {
		q = q.Where("email = ?", email)
	}
	var list []Order
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

// Get fetches an order by id.
func (s *Store) Get(ctx context.Context, id uint) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// UpdateStatus sets a new status on an order. The status must be a member
// of the valid set; beyond that, any status may follow any other.
func (s *Store) UpdateStatus(ctx context.Context, id uint, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	order.Status = status
	return order, nil
}
