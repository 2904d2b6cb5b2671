package usecase

import (
	"context"
	"time"

	"slotwise/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateBookingInput carries the inputs of a booking creation.
type CreateBookingInput struct {
	MerchantID uuid.UUID
	OrderID    string
	CustomerID string
	SlotID     uuid.UUID

	// Postcode and the optional coordinates describe the delivery
	// address; they feed later route-efficiency scoring.
	Postcode  string
	Latitude  *float64
	Longitude *float64

	// WasRecommended marks whether the customer picked a flagged slot.
	// RecordedScore is the score shown at selection time, if any.
	WasRecommended bool
	RecordedScore  *float64
}

// RescheduleBookingInput moves an active booking to a new slot.
type RescheduleBookingInput struct {
	MerchantID uuid.UUID
	OrderID    string
	NewSlotID  uuid.UUID
}

// CancelBookingInput cancels an active booking.
type CancelBookingInput struct {
	MerchantID uuid.UUID
	OrderID    string
}

// BookingResult is the booking state returned after a mutation.
type BookingResult struct {
	ID          uuid.UUID              `json:"id"`
	OrderID     string                 `json:"order_id"`
	SlotID      uuid.UUID              `json:"slot_id"`
	LocationID  uuid.UUID              `json:"location_id"`
	Fulfillment entity.FulfillmentType `json:"fulfillment"`
	Status      entity.BookingStatus   `json:"status"`
	Date        string                 `json:"date"`
	StartTime   string                 `json:"start_time"`
	EndTime     string                 `json:"end_time"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// PickupQRResult is the QR code payload for a pickup booking.
type PickupQRResult struct {
	BookingID uuid.UUID `json:"booking_id"`
	OrderID   string    `json:"order_id"`
	PNG       []byte    `json:"-"`
}

// BookingUsecase owns the booking lifecycle and its capacity accounting.
type BookingUsecase interface {
	// Create books a slot for an order. One active booking per order;
	// the slot's remaining capacity is consumed atomically.
	Create(ctx context.Context, input *CreateBookingInput) (*BookingResult, error)

	// Reschedule atomically releases the current slot and reserves the
	// new one. Rescheduling onto the same slot is rejected.
	Reschedule(ctx context.Context, input *RescheduleBookingInput) (*BookingResult, error)

	// Cancel releases the booking's slot capacity and marks it canceled.
	Cancel(ctx context.Context, input *CancelBookingInput) (*BookingResult, error)

	// PickupQR renders the check-in QR code for an active pickup booking.
	PickupQR(ctx context.Context, orderID string) (*PickupQRResult, error)
}
