package performance

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
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
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&ProductPerformance{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// List joins the designs table by name; create just what it reads
	err = gdb.Exec("CREATE TABLE designs (id integer primary key, title text)").Error
	if err != nil {
		t.Fatalf("create designs table: %v", err)
	}
	return NewStore(gdb), gdb
}

func TestRecordUpserts(t *testing.T) {
	s, gdb := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Record(ctx, 7); err != nil {
			t.Fatalf("Record #%d error: %v", i, err)
		}
	}

	count, err := s.Count(ctx, 7)
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	// all events for one design land on a single row
	var rows int64
	if err := gdb.Model(&ProductPerformance{}).Count(&rows).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}
}

func TestCountMissingDesign(t *testing.T) {
	s, _ := newTestStore(t)

	count, err := s.Count(context.Background(), 99)
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestListJoinsTitles(t *testing.T) {
	s, gdb := newTestStore(t)
	ctx := context.Background()

	err := gdb.Exec("INSERT INTO designs (id, title) VALUES (1, 'Dhaka Skyline')").Error
	if err != nil {
		t.Fatalf("seed design: %v", err)
	}
	if err := s.Record(ctx, 1); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if err := s.Record(ctx, 2); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	stats, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}

	byID := map[uint]DesignStat{}
	for _, st := range stats {
		byID[st.DesignID] = st
	}
	known := byID[1]
	if known.Title == nil || *known.Title != "Dhaka Skyline" {
		t.Fatalf("stat for design 1 = %+v", known)
	}
	// counters survive the design being deleted; title comes back null
	orphan := byID[2]
	if orphan.Title != nil {
		t.Fatalf("orphan stat has title %q", *orphan.Title)
	}
	if orphan.Count != 1 {
		t.Fatalf("orphan count = %d, want 1", orphan.Count)
	}
}
