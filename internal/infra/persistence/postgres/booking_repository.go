package postgres

import (
	"context"
	"time"

	"slotwise/internal/domain/entity"
	domainerrors "slotwise/internal/domain/errors"
	"slotwise/internal/domain/repository"
	"slotwise/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// activeStatuses lists the booking statuses that hold slot capacity.
var activeStatuses = []string{
	string(entity.BookingStatusScheduled),
	string(entity.BookingStatusUpdated),
}

// bookingRepository implements the repository.BookingRepository interface.
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository is the constructor for bookingRepository.
func NewBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &bookingRepository{
		db: db,
	}
}

// CreateBooking persists a new booking. The unique index on active_order_key
// rejects a second active booking for the same order at the database level.
func (repo *bookingRepository) CreateBooking(ctx context.Context, booking *entity.Booking) error {
	bookingM := fromBookingDomain(booking)

	if err := repo.db.WithContext(ctx).Create(bookingM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateActiveBooking
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create booking")
	}

	// Update the entity with generated values
	booking.ID = bookingM.ID
	booking.CreatedAt = bookingM.CreatedAt
	booking.UpdatedAt = bookingM.UpdatedAt

	return nil
}

// FindActiveBookingByOrderID retrieves the booking currently holding capacity
// for the order.
func (repo *bookingRepository) FindActiveBookingByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	var bookingM model.BookingModel

	if err := repo.db.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID, activeStatuses).
		First(&bookingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookingNotFound
		}

		return nil, errors.Wrap(err, "failed to find active booking by order ID")
	}

	return toBookingDomain(&bookingM), nil
}

// FindBookingByID retrieves a booking by its unique ID.
func (repo *bookingRepository) FindBookingByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var bookingM model.BookingModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&bookingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookingNotFound
		}

		return nil, errors.Wrap(err, "failed to find booking by ID")
	}

	return toBookingDomain(&bookingM), nil
}

// TransitionBooking persists a state transition, recomputing the
// active_order_key column from the new status. The WHERE asserts the slot
// and status the caller read, so a transition that raced against a
// concurrent commit matches zero rows instead of releasing the same
// reservation twice.
func (repo *bookingRepository) TransitionBooking(ctx context.Context, booking *entity.Booking, fromSlotID uuid.UUID, fromStatus entity.BookingStatus) error {
	bookingM := fromBookingDomain(booking)

	result := repo.db.WithContext(ctx).
		Model(&model.BookingModel{}).
		Where("id = ? AND slot_id = ? AND status = ?", booking.ID, fromSlotID, string(fromStatus)).
		Select("slot_id", "status", "active_order_key", "was_recommended", "recorded_score").
		Updates(bookingM)

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateActiveBooking
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update booking")
	}

	if result.RowsAffected == 0 {
		return repository.ErrBookingNotFound
	}

	return nil
}

// FindScheduledDeliveries joins active delivery bookings with their slots,
// keeping only those with customer coordinates. One query feeds the whole
// route-efficiency pass.
func (repo *bookingRepository) FindScheduledDeliveries(ctx context.Context, from, to time.Time) ([]entity.ScheduledDelivery, error) {
	var rows []struct {
		SlotDate  time.Time
		StartTime string
		Latitude  float64
		Longitude float64
	}

	if err := repo.db.WithContext(ctx).
		Table("bookings").
		Select("slots.date AS slot_date, slots.start_time AS start_time, bookings.latitude, bookings.longitude").
		Joins("JOIN slots ON slots.id = bookings.slot_id").
		Where("bookings.status IN ?", activeStatuses).
		Where("bookings.fulfillment = ?", string(entity.FulfillmentDelivery)).
		Where("bookings.latitude IS NOT NULL AND bookings.longitude IS NOT NULL").
		Where("slots.date BETWEEN ? AND ?", from, to).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find scheduled deliveries")
	}

	deliveries := make([]entity.ScheduledDelivery, 0, len(rows))
	for _, row := range rows {
		deliveries = append(deliveries, entity.ScheduledDelivery{
			SlotDate:  row.SlotDate,
			StartTime: row.StartTime,
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
		})
	}

	return deliveries, nil
}

// --- Mapper Functions ---

// toBookingDomain converts a GORM BookingModel to a domain Booking entity.
func toBookingDomain(data *model.BookingModel) *entity.Booking {
	if data == nil {
		return nil
	}

	return &entity.Booking{
		ID:             data.ID,
		OrderID:        data.OrderID,
		SlotID:         data.SlotID,
		Status:         entity.BookingStatus(data.Status),
		Fulfillment:    entity.FulfillmentType(data.Fulfillment),
		Postcode:       data.Postcode,
		Latitude:       data.Latitude,
		Longitude:      data.Longitude,
		WasRecommended: data.WasRecommended,
		RecordedScore:  data.RecordedScore,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromBookingDomain converts a domain Booking entity to a GORM BookingModel.
// active_order_key mirrors the order ID while the status is active and is
// NULL otherwise, which is what the uniqueness guarantee hangs on.
func fromBookingDomain(data *entity.Booking) *model.BookingModel {
	if data == nil {
		return nil
	}

	var activeKey *string
	if data.Status.IsActive() {
		orderID := data.OrderID
		activeKey = &orderID
	}

	return &model.BookingModel{
		ID:             data.ID,
		OrderID:        data.OrderID,
		ActiveOrderKey: activeKey,
		SlotID:         data.SlotID,
		Status:         string(data.Status),
		Fulfillment:    string(data.Fulfillment),
		Postcode:       data.Postcode,
		Latitude:       data.Latitude,
		Longitude:      data.Longitude,
		WasRecommended: data.WasRecommended,
		RecordedScore:  data.RecordedScore,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
