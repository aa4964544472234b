package model

import (
	"encoding/json"
	"time"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusProcessed  OutboxStatus = "PROCESSED"
	OutboxStatusFailed     OutboxStatus = "FAILED"
)

// Domain event types emitted through the outbox.
const (
	EventBookingCreated = "booking.created"
	EventBookingPaid    = "booking.paid"
)

// OutboxEvent is a pending domain event. Events are written alongside the
// mutation that caused them and published to the broker by a background
// processor, so a broker outage never fails a request.
type OutboxEvent struct {
	ID           string          `bson:"_id" json:"id"`
	EventType    string          `bson:"eventType" json:"event_type"`
	Payload      json.RawMessage `bson:"payload" json:"payload"`
	Status       OutboxStatus    `bson:"status" json:"status"`
	ErrorMessage string          `bson:"errorMessage,omitempty" json:"error_message,omitempty"`
	RetryCount   int             `bson:"retryCount" json:"retry_count"`
	CreatedAt    time.Time       `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time       `bson:"updatedAt" json:"updated_at"`
	ProcessedAt  *time.Time      `bson:"processedAt,omitempty" json:"processed_at,omitempty"`
}
