package main

// DesignEvent is the payload sent from API -> SQS -> worker for each
// recorded product-performance event.
type DesignEvent struct {
	DesignID      uint   `json:"design_id"`
	Event         string `json:"event"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
