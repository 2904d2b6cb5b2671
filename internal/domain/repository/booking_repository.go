package repository

import (
	"context"
	"time"

	"slotwise/internal/domain/entity"
	"slotwise/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for booking persistence.
var (
	// ErrBookingNotFound is returned when no matching booking exists.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrDuplicateActiveBooking is returned when an active booking already
	// exists for the order. Enforced by the store, not a pre-read, so two
	// concurrent creates cannot both slip through.
	ErrDuplicateActiveBooking = errors.New("order already has an active booking")
)

// BookingRepository defines the interface for booking-related database operations.
// Bookings are never deleted; cancellation is a status transition.
type BookingRepository interface {
	// CreateBooking persists a new booking. Returns
	// ErrDuplicateActiveBooking when the order already holds capacity.
	CreateBooking(ctx context.Context, booking *entity.Booking) error

	// FindActiveBookingByOrderID retrieves the booking holding capacity
	// for the order (status scheduled or updated).
	FindActiveBookingByOrderID(ctx context.Context, orderID string) (*entity.Booking, error)

	// FindBookingByID retrieves a booking by its unique ID.
	FindBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// TransitionBooking persists a state transition, guarded by the slot
	// and status the caller read. Returns ErrBookingNotFound when another
	// transition got there first, so the caller's capacity moves roll
	// back with the transaction instead of double-counting.
	TransitionBooking(ctx context.Context, booking *entity.Booking, fromSlotID uuid.UUID, fromStatus entity.BookingStatus) error

	// FindScheduledDeliveries retrieves the active delivery bookings with
	// customer coordinates whose slot date falls within [from, to],
	// joined with their slots for route-efficiency scoring.
	FindScheduledDeliveries(ctx context.Context, from, to time.Time) ([]entity.ScheduledDelivery, error)
}
