package main

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wnzid/posterscoop-backend/internal/performance"
)

// mockCloudWatch captures PutMetricData inputs.
type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return nil, m.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func newTestProcessor(t *testing.T) (*Processor, *performance.Store, *mockCloudWatch) {
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
	if err := gdb.AutoMigrate(&performance.ProductPerformance{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	perf := performance.NewStore(gdb)
	cw := &mockCloudWatch{}
	p := NewProcessor(perf, cw)
	p.nowFunc = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return p, perf, cw
}

func TestHandlePublishesMetrics(t *testing.T) {
	p, perf, cw := newTestProcessor(t)
	ctx := context.Background()

	// the API already counted three events for this design
	for i := 0; i < 3; i++ {
		if err := perf.Record(ctx, 42); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"design_id":42,"event":"view","correlation_id":"abc"}`},
	}}
	if err := p.Handle(ctx, ev); err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	if len(cw.inputs) != 1 {
		t.Fatalf("PutMetricData calls = %d, want 1", len(cw.inputs))
	}
	in := cw.inputs[0]
	if *in.Namespace != "PosterScoop/Analytics" {
		t.Fatalf("namespace = %q", *in.Namespace)
	}
	if len(in.MetricData) != 2 {
		t.Fatalf("metric data len = %d, want 2", len(in.MetricData))
	}

	byName := map[string]float64{}
	for _, d := range in.MetricData {
		byName[*d.MetricName] = *d.Value
		if len(d.Dimensions) != 1 || *d.Dimensions[0].Name != "DesignID" || *d.Dimensions[0].Value != "42" {
			t.Fatalf("dimensions = %+v", d.Dimensions)
		}
	}
	if byName["DesignEvents"] != 1 {
		t.Fatalf("DesignEvents = %v, want 1", byName["DesignEvents"])
	}
	// the total comes from the stored counter, not the message count
	if byName["DesignEventTotal"] != 3 {
		t.Fatalf("DesignEventTotal = %v, want 3", byName["DesignEventTotal"])
	}
}

func TestHandleRejectsMalformedMessage(t *testing.T) {
	p, _, cw := newTestProcessor(t)

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `not json`},
	}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatal("expected error for malformed body")
	}
	if len(cw.inputs) != 0 {
		t.Fatalf("metrics published for malformed message: %d", len(cw.inputs))
	}
}

func TestHandleRejectsMissingDesignID(t *testing.T) {
	p, _, cw := newTestProcessor(t)

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"event":"view"}`},
	}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatal("expected error for missing design_id")
	}
	if len(cw.inputs) != 0 {
		t.Fatalf("metrics published without design id: %d", len(cw.inputs))
	}
}

func TestHandleStopsBatchOnFirstFailure(t *testing.T) {
	p, _, cw := newTestProcessor(t)

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"design_id":1,"event":"view"}`},
		{Body: `broken`},
		{Body: `{"design_id":2,"event":"view"}`},
	}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatal("expected batch failure")
	}
	// the first message was processed, the rest were not
	if len(cw.inputs) != 1 {
		t.Fatalf("PutMetricData calls = %d, want 1", len(cw.inputs))
	}
}
