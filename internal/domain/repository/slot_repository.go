// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"time"

	"slotwise/internal/domain/entity"
	"slotwise/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for slot persistence.
var (
	// ErrSlotNotFound is returned when a slot is not found.
	ErrSlotNotFound = errors.New("slot not found")
	// ErrCapacityExceeded is returned when a reserve would push booked past capacity.
	ErrCapacityExceeded = errors.New("slot capacity exceeded")
	// ErrCapacityUnderflow is returned when a release would drive booked below zero.
	ErrCapacityUnderflow = errors.New("slot booked count underflow")
)

// SlotQuery narrows a bookable-slot lookup.
type SlotQuery struct {
	LocationIDs []uuid.UUID
	Fulfillment entity.FulfillmentType // Empty means any.
	DateFrom    *time.Time
	DateTo      *time.Time
}

// SlotRepository defines the interface for slot-related database operations.
// ReserveCapacity and ReleaseCapacity together form the capacity ledger: the
// only writers of a slot's booked counter, each a single atomic conditional
// update so that 0 <= booked <= capacity holds under any interleaving.
type SlotRepository interface {
	// FindSlotByID retrieves a slot by its unique ID.
	FindSlotByID(ctx context.Context, id uuid.UUID) (*entity.Slot, error)

	// FindBookableSlots retrieves active slots matching the query,
	// ordered by date then start time.
	FindBookableSlots(ctx context.Context, query SlotQuery) ([]*entity.Slot, error)

	// ReserveCapacity atomically increments booked by one, only if
	// booked < capacity at the moment of the update. Returns
	// ErrCapacityExceeded when the slot is full and ErrSlotNotFound when
	// no active slot matches; either way nothing changes.
	ReserveCapacity(ctx context.Context, id uuid.UUID) error

	// ReleaseCapacity atomically decrements booked by one, only if
	// booked > 0 at the moment of the update. Must only be called with a
	// matching prior successful ReserveCapacity.
	ReleaseCapacity(ctx context.Context, id uuid.UUID) error

	// UpdateCachedScore writes back the slot's last recommendation score.
	// Best-effort: ranking correctness never depends on the cache.
	UpdateCachedScore(ctx context.Context, id uuid.UUID, score float64) error
}
