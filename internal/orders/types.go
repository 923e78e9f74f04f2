package orders

import (
	"encoding/json"
	"time"
)

// Order statuses
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusProcessing: true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

// ValidStatus reports whether s is a known order status. Any valid status
// may follow any other; there is no transition graph.
func ValidStatus(s string) bool { return validStatuses[s] }

// refKey is the line-item field linking an item to a custom order.
const refKey = "orderCode"

// Order is a placed checkout order. Items are stored as serialized JSON
// for display flexibility; custom-order links inside them are mirrored
// into OrderCustomRef rows, which are the authoritative, indexed linkage.
type Order struct {
	ID            uint      `gorm:"primaryKey"`
	OrderCode     string    `gorm:"size:20;uniqueIndex;not null"`
	Name          string    `gorm:"size:100;not null"`
	Email         string    `gorm:"size:120"`
	Phone         string    `gorm:"size:20;not null"`
	Address       string    `gorm:"size:200;not null"`
	City          string    `gorm:"size:100;not null"`
	PostalCode    string    `gorm:"size:20"`
	PaymentMethod string    `gorm:"size:50;default:cod"`
	Status        string    `gorm:"size:20;default:pending"`
	Items         string    `gorm:"type:text;not null"`
	TotalPrice    float64   `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"index"`
}

func (Order) TableName() string { return "orders" }

// LineItems deserializes the order's items. With hideRefs set, the
// internal custom-order markers are stripped from each item; that linkage
// never surfaces to customer-facing views.
func (o *Order) LineItems(hideRefs bool) ([]map[string]interface{}, error) {
	raw := o.Items
	if raw == "" {
		raw = "[]"
	}
	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	if hideRefs {
		for _, item := range items {
			delete(item, refKey)
		}
	}
	return items, nil
}

// OrderCounter is the per-partition allocation counter. Partition is the
// two-digit issuance year; LastSeq is the last sequence number handed out.
// The column is partition_key because PARTITION is reserved in MySQL.
type OrderCounter struct {
	Partition string `gorm:"column:partition_key;primaryKey;size:8"`
	LastSeq   int    `gorm:"not null"`
}

func (OrderCounter) TableName() string { return "order_counters" }

// OrderCustomRef links an order to a custom-order code embedded in one of
// its line items, so reconciliation after a custom-order deletion is an
// indexed lookup instead of a full-table scan.
type OrderCustomRef struct {
	ID              uint   `gorm:"primaryKey"`
	OrderID         uint   `gorm:"index;not null"`
	CustomOrderCode string `gorm:"size:40;index;not null"`
}

func (OrderCustomRef) TableName() string { return "order_custom_refs" }

// NewOrder carries the validated fields for order creation.
type NewOrder struct {
	Name          string
	Email         string
	Phone         string
	Address       string
	City          string
	PostalCode    string
	PaymentMethod string
	Items         []map[string]interface{}
	TotalPrice    float64
}
