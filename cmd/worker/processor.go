package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/wnzid/posterscoop-backend/internal/aws"
	"github.com/wnzid/posterscoop-backend/internal/performance"
)

const metricNamespace = "PosterScoop/Analytics"

// Processor turns design-event messages into CloudWatch metrics. It reads
// the stored counter back so dashboards see the authoritative total, not a
// message count that drifts under redelivery.
type Processor struct {
	perf       *performance.Store
	cloudwatch aws.CloudWatchAPI
	nowFunc    func() time.Time
}

// NewProcessor creates a worker processor with its collaborators injected.
func NewProcessor(perf *performance.Store, cw aws.CloudWatchAPI) *Processor {
	return &Processor{
		perf:       perf,
		cloudwatch: cw,
		nowFunc:    time.Now,
	}
}

// Handle receives an SQS batch event and processes each message. An error
// fails the batch so the runtime redelivers; poisoned messages end up on
// the DLQ.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg DesignEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.DesignID == 0 {
		return fmt.Errorf("message missing design_id: %s", rec.Body)
	}

	log.Printf("[worker] design=%d event=%s corr=%s", msg.DesignID, msg.Event, msg.CorrelationID)

	total, err := p.perf.Count(ctx, msg.DesignID)
	if err != nil {
		return fmt.Errorf("read counter for design %d: %w", msg.DesignID, err)
	}

	now := p.nowFunc().UTC()
	dims := []cwtypes.Dimension{{
		Name:  sdkaws.String("DesignID"),
		Value: sdkaws.String(fmt.Sprintf("%d", msg.DesignID)),
	}}
	_, err = p.cloudwatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(metricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: sdkaws.String("DesignEvents"),
				Dimensions: dims,
				Timestamp:  &now,
				Value:      sdkaws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
			},
			{
				MetricName: sdkaws.String("DesignEventTotal"),
				Dimensions: dims,
				Timestamp:  &now,
				Value:      sdkaws.Float64(float64(total)),
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
