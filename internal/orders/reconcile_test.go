package orders

import (
	"context"
	"testing"
	"time"
)

func TestStripCustomOrderRefs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, err := s.Create(ctx, NewOrder{
		Name:    "Ref",
		Phone:   "017",
		Address: "A",
		City:    "Dhaka",
		Items: []map[string]interface{}{
			{"product": "Custom Poster", "quantity": float64(1), "price": 500.0, "orderCode": "abc123de"},
			{"product": "Stock Poster", "quantity": float64(3), "price": 150.0},
		},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := s.StripCustomOrderRefs(ctx, "abc123de"); err != nil {
		t.Fatalf("StripCustomOrderRefs error: %v", err)
	}

	loaded, err := s.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	items, err := loaded.LineItems(false)
	if err != nil {
		t.Fatalf("LineItems error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if _, ok := items[0]["orderCode"]; ok {
		t.Fatal("link not removed from first item")
	}
	// every other field survives the patch
	if items[0]["product"] != "Custom Poster" || items[0]["quantity"] != float64(1) || items[0]["price"] != 500.0 {
		t.Fatalf("first item lost fields: %#v", items[0])
	}
	if items[1]["product"] != "Stock Poster" {
		t.Fatalf("second item altered: %#v", items[1])
	}

	var refCount int64
	if err := s.db.Model(&OrderCustomRef{}).Where("custom_order_code = ?", "abc123de").Count(&refCount).Error; err != nil {
		t.Fatalf("count refs: %v", err)
	}
	if refCount != 0 {
		t.Fatalf("%d refs remain after strip", refCount)
	}
}

func TestStripCustomOrderRefsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, err := s.Create(ctx, NewOrder{
		Name:    "Ref",
		Phone:   "017",
		Address: "A",
		City:    "Dhaka",
		Items: []map[string]interface{}{
			{"product": "Custom Poster", "orderCode": "dupecode"},
		},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := s.StripCustomOrderRefs(ctx, "dupecode"); err != nil {
		t.Fatalf("first strip error: %v", err)
	}
	first, err := s.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if err := s.StripCustomOrderRefs(ctx, "dupecode"); err != nil {
		t.Fatalf("second strip error: %v", err)
	}
	second, err := s.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if first.Items != second.Items {
		t.Fatalf("second strip changed items: %q -> %q", first.Items, second.Items)
	}
}

func TestStripCustomOrderRefsLegacyRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// an order written before the ref table existed: link present in the
	// serialized items but no order_custom_refs row
	err := s.db.Create(&Order{
		OrderCode: "250001",
		Name:      "Legacy",
		Phone:     "017",
		Address:   "A",
		City:      "Dhaka",
		Items:     `[{"product":"Old Custom","orderCode":"legacy01"}]`,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}).Error
	if err != nil {
		t.Fatalf("seed legacy order: %v", err)
	}

	if err := s.StripCustomOrderRefs(ctx, "legacy01"); err != nil {
		t.Fatalf("StripCustomOrderRefs error: %v", err)
	}

	var order Order
	if err := s.db.Where("order_code = ?", "250001").Take(&order).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	items, err := order.LineItems(false)
	if err != nil {
		t.Fatalf("LineItems error: %v", err)
	}
	if _, ok := items[0]["orderCode"]; ok {
		t.Fatal("legacy link not removed")
	}
	if items[0]["product"] != "Old Custom" {
		t.Fatalf("legacy item lost fields: %#v", items[0])
	}
}
