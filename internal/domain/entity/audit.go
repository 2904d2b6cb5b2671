package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction identifies the booking state transition an audit record captures.
type AuditAction string

const (
	// AuditActionCreated records a new booking reserving slot capacity.
	AuditActionCreated AuditAction = "created"
	// AuditActionRescheduled records a booking moving between slots.
	AuditActionRescheduled AuditAction = "rescheduled"
	// AuditActionCanceled records a booking releasing its slot capacity.
	AuditActionCanceled AuditAction = "canceled"
)

// SlotSnapshot captures the identity of a slot at the moment of a booking
// state change, so the audit trail stays meaningful even if the slot is
// later edited by the admin collaborator.
type SlotSnapshot struct {
	SlotID     uuid.UUID `json:"slot_id"`
	LocationID uuid.UUID `json:"location_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

// NewSlotSnapshot builds a snapshot from a slot.
func NewSlotSnapshot(slot *Slot) *SlotSnapshot {
	if slot == nil {
		return nil
	}

	return &SlotSnapshot{
		SlotID:     slot.ID,
		LocationID: slot.LocationID,
		Date:       slot.Date.Format("2006-01-02"),
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
	}
}

// BookingAudit is the durable history entry appended in the same transaction
// as every booking state change.
type BookingAudit struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	OrderID        string
	Action         AuditAction
	PreviousStatus BookingStatus // Empty on creation.
	NewStatus      BookingStatus
	PreviousSlot   *SlotSnapshot // Nil on creation.
	NewSlot        *SlotSnapshot // Nil on cancellation.
	CreatedAt      time.Time
}
