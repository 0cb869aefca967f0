package events

import (
	"time"

	"github.com/spec-kit/invoice-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBatchIngested  EventType = "invoice_batch_ingested"
	EventInvoiceDecided EventType = "invoice_decided"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BatchIngestedPayload payload.
type BatchIngestedPayload struct {
	BatchID  string `json:"batch_id"`
	Inserted int    `json:"inserted"`
}

// InvoiceDecidedPayload payload.
type InvoiceDecidedPayload struct {
	InvoiceID int64                `json:"invoice_id"`
	Status    domain.InvoiceStatus `json:"status"`
	Comment   *string              `json:"comment,omitempty"`
}
