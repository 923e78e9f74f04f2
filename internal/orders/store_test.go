package orders

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	// a single connection keeps the in-memory database alive and
	// serializes concurrent transactions the way the pool would
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&Order{}, &OrderCounter{}, &OrderCustomRef{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func newTestStore(t *testing.T) *Store {
	s := NewStore(openTestDB(t))
	s.nowFunc = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestCreateAllocatesSequentialCodes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		order, err := s.Create(ctx, NewOrder{
			Name:    "Rahim",
			Phone:   "01700000000",
			Address: "House 1, Road 2",
			City:    "Dhaka",
			Items:   []map[string]interface{}{},
		})
		if err != nil {
			t.Fatalf("Create #%d error: %v", i, err)
		}
		want := fmt.Sprintf("25%04d", i)
		if order.OrderCode != want {
			t.Fatalf("order %d code = %q, want %q", i, order.OrderCode, want)
		}
	}
}

func TestCreateAfterSeededOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// a database that predates the counter table
	err := s.db.Create(&Order{
		OrderCode: "250007",
		Name:      "Karim",
		Phone:     "01800000000",
		Address:   "Road 3",
		City:      "Chattogram",
		Items:     "[]",
		CreatedAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
	}).Error
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	if err := SeedCounters(s.db); err != nil {
		t.Fatalf("SeedCounters: %v", err)
	}

	order, err := s.Create(ctx, NewOrder{
		Name:    "Rahim",
		Phone:   "01700000000",
		Address: "House 1",
		City:    "Dhaka",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if order.OrderCode != "250008" {
		t.Fatalf("code = %q, want 250008", order.OrderCode)
	}
}

func TestConcurrentCreatesYieldDistinctContiguousCodes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 12
	var (
		mu    sync.Mutex
		codes []string
		wg    sync.WaitGroup
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			order, err := s.Create(ctx, NewOrder{
				Name:    "Concurrent",
				Phone:   "017",
				Address: "A",
				City:    "Dhaka",
			})
			if err != nil {
				t.Errorf("Create error: %v", err)
				return
			}
			mu.Lock()
			codes = append(codes, order.OrderCode)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(codes) != n {
		t.Fatalf("got %d codes, want %d", len(codes), n)
	}
	sort.Strings(codes)
	for i, code := range codes {
		want := fmt.Sprintf("25%04d", i+1)
		if code != want {
			t.Fatalf("codes[%d] = %q, want %q (full set: %v)", i, code, want, codes)
		}
	}
}

func TestCounterLookupQuotesColumn(t *testing.T) {
	s := newTestStore(t)

	// PARTITION is reserved in MySQL; the counter read-back must never
	// render the column as a bare identifier
	stmt := s.db.Session(&gorm.Session{DryRun: true}).
		Where(&OrderCounter{Partition: "25"}).
		Take(&OrderCounter{}).Statement
	sql := stmt.SQL.String()
	if !strings.Contains(sql, "`partition_key`") {
		t.Fatalf("counter lookup does not quote the column: %s", sql)
	}
}

func TestCreateSequenceExhausted(t *testing.T) {
	s := newTestStore(t)

	if err := s.db.Create(&OrderCounter{Partition: "25", LastSeq: 9999}).Error; err != nil {
		t.Fatalf("seed counter: %v", err)
	}

	_, err := s.Create(context.Background(), NewOrder{
		Name:    "Overflow",
		Phone:   "017",
		Address: "A",
		City:    "Dhaka",
	})
	if !errors.Is(err, ErrSequenceExhausted) {
		t.Fatalf("expected ErrSequenceExhausted, got %v", err)
	}

	// the failed allocation must not have persisted an order
	var count int64
	if err := s.db.Model(&Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("found %d orders after failed allocation", count)
	}
}

func TestCreateAcceptsEmptyItemsAndZeroTotal(t *testing.T) {
	s := newTestStore(t)

	order, err := s.Create(context.Background(), NewOrder{
		Name:       "Zero",
		Phone:      "017",
		Address:    "A",
		City:       "Dhaka",
		Items:      []map[string]interface{}{},
		TotalPrice: 0,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if order.Items != "[]" {
		t.Fatalf("items = %q, want empty array", order.Items)
	}
	if order.Status != StatusPending {
		t.Fatalf("status = %q, want pending", order.Status)
	}
}

func TestItemsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	items := []map[string]interface{}{
		{"product": "Movie Poster", "quantity": float64(2), "price": 450.5, "orderCode": "abc123"},
		{"product": "Frame", "quantity": float64(1), "price": 200.0},
	}
	created, err := s.Create(ctx, NewOrder{
		Name:       "Roundtrip",
		Email:      "rt@example.com",
		Phone:      "017",
		Address:    "A",
		City:       "Dhaka",
		Items:      items,
		TotalPrice: 1101.0,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	loaded, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	decoded, err := loaded.LineItems(false)
	if err != nil {
		t.Fatalf("LineItems error: %v", err)
	}
	if !reflect.DeepEqual(decoded, items) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", decoded, items)
	}

	// customer views get the internal markers stripped
	stripped, err := loaded.LineItems(true)
	if err != nil {
		t.Fatalf("LineItems(stripped) error: %v", err)
	}
	if _, ok := stripped[0]["orderCode"]; ok {
		t.Fatal("orderCode not stripped from customer view")
	}
	if stripped[0]["product"] != "Movie Poster" || stripped[0]["quantity"] != float64(2) {
		t.Fatalf("stripped item lost fields: %#v", stripped[0])
	}
}

func TestCreateMirrorsCustomRefs(t *testing.T) {
	s := newTestStore(t)

	order, err := s.Create(context.Background(), NewOrder{
		Name:    "Refs",
		Phone:   "017",
		Address: "A",
		City:    "Dhaka",
		Items: []map[string]interface{}{
			{"product": "Custom", "orderCode": "abc123"},
			{"product": "Plain"},
		},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	var refs []OrderCustomRef
	if err := s.db.Where("order_id = ?", order.ID).Find(&refs).Error; err != nil {
		t.Fatalf("load refs: %v", err)
	}
	if len(refs) != 1 || refs[0].CustomOrderCode != "abc123" {
		t.Fatalf("refs = %+v, want one ref to abc123", refs)
	}
}

func TestListNewestFirstAndEmailFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	s.nowFunc = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	for i, email := range []string{"a@example.com", "b@example.com", "a@example.com"} {
		_, err := s.Create(ctx, NewOrder{
			Name:    fmt.Sprintf("Customer %d", i),
			Email:   email,
			Phone:   "017",
			Address: "A",
			City:    "Dhaka",
			Items: []map[string]interface{}{
				{"product": "P", "orderCode": "ref99xyz"},
			},
		})
		if err != nil {
			t.Fatalf("Create %d error: %v", i, err)
		}
	}

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if !all[0].CreatedAt.After(all[1].CreatedAt) || !all[1].CreatedAt.After(all[2].CreatedAt) {
		t.Fatal("orders not sorted newest first")
	}

	mine, err := s.List(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("List(email) error: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("filtered len = %d, want 2", len(mine))
	}
	for _, o := range mine {
		if o.Email != "a@example.com" {
			t.Fatalf("unexpected email %q", o.Email)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, err := s.Create(ctx, NewOrder{
		Name:    "Status",
		Phone:   "017",
		Address: "A",
		City:    "Dhaka",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := s.UpdateStatus(ctx, order.ID, StatusDelivered)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.Status != StatusDelivered {
		t.Fatalf("status = %q, want delivered", updated.Status)
	}

	// no forward-only restriction: delivered -> pending is accepted
	if _, err := s.UpdateStatus(ctx, order.ID, StatusPending); err != nil {
		t.Fatalf("backwards transition rejected: %v", err)
	}

	if _, err := s.UpdateStatus(ctx, order.ID, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := s.UpdateStatus(ctx, 9999, StatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
