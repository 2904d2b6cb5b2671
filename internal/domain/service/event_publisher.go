// Package service defines domain-level service contracts implemented by the
// infrastructure layer.
package service

import (
	"context"
	"time"

	"slotwise/internal/domain/entity"
)

// BookingEvent is emitted on every booking state transition for downstream
// order-tagging and notification systems to consume asynchronously. The
// durable audit record is written transactionally by the booking state
// machine; this event is the best-effort fan-out of the same fact.
type BookingEvent struct {
	RequestID      string               `json:"request_id,omitempty"` // For distributed tracing.
	BookingID      string               `json:"booking_id"`
	OrderID        string               `json:"order_id"`
	Action         entity.AuditAction   `json:"action"`
	Status         entity.BookingStatus `json:"status"`
	SlotID         string               `json:"slot_id,omitempty"`
	PreviousSlotID string               `json:"previous_slot_id,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

// EventPublisher publishes booking events to the configured audit sink.
type EventPublisher interface {
	// PublishBookingEvent publishes one booking state transition.
	PublishBookingEvent(ctx context.Context, event *BookingEvent) error

	// Close releases the publisher's resources.
	Close() error
}
