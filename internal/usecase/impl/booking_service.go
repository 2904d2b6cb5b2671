package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "slotwise/internal/delivery/context"
	"slotwise/internal/domain/entity"
	domainerrors "slotwise/internal/domain/errors"
	"slotwise/internal/domain/repository"
	"slotwise/internal/domain/scheduling"
	"slotwise/internal/domain/service"
	"slotwise/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// bookingService implements the BookingUsecase interface. Every state
// transition runs inside one transaction: the capacity ledger update, the
// booking row, and the audit append commit or roll back together. Event
// publication and preference learning happen after commit, best-effort.
type bookingService struct {
	txManager      repository.TransactionManager
	bookingRepo    repository.BookingRepository
	slotRepo       repository.SlotRepository
	locationRepo   repository.LocationRepository
	ruleRepo       repository.RuleRepository
	preferenceRepo repository.PreferenceRepository
	publisher      service.EventPublisher
	qrcodeService  service.QRCodeService
	logger         *slog.Logger
}

// NewBookingService is the constructor for bookingService.
func NewBookingService(
	txManager repository.TransactionManager,
	bookingRepo repository.BookingRepository,
	slotRepo repository.SlotRepository,
	locationRepo repository.LocationRepository,
	ruleRepo repository.RuleRepository,
	preferenceRepo repository.PreferenceRepository,
	publisher service.EventPublisher,
	qrcodeService service.QRCodeService,
	logger *slog.Logger,
) usecase.BookingUsecase {
	return &bookingService{
		txManager:      txManager,
		bookingRepo:    bookingRepo,
		slotRepo:       slotRepo,
		locationRepo:   locationRepo,
		ruleRepo:       ruleRepo,
		preferenceRepo: preferenceRepo,
		publisher:      publisher,
		qrcodeService:  qrcodeService,
		logger:         logger,
	}
}

// Create books a slot for an order.
func (srv *bookingService) Create(ctx context.Context, input *usecase.CreateBookingInput) (*usecase.BookingResult, error) {
	if input.OrderID == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("order ID is required")
	}

	// Rule admission is checked before any mutation. The slot is re-read
	// inside the transaction, so this pre-read never guards capacity.
	slot, err := srv.admittedSlot(ctx, input.MerchantID, input.SlotID)
	if err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		ID:             uuid.New(),
		OrderID:        input.OrderID,
		SlotID:         slot.ID,
		Status:         entity.BookingStatusScheduled,
		Fulfillment:    slot.Fulfillment,
		Postcode:       input.Postcode,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		WasRecommended: input.WasRecommended,
		RecordedScore:  input.RecordedScore,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		slotRepo := repoFactory.NewSlotRepository()

		if err := slotRepo.ReserveCapacity(ctx, slot.ID); err != nil {
			return translateCapacityError(err)
		}

		if err := repoFactory.NewBookingRepository().CreateBooking(ctx, booking); err != nil {
			if errors.Is(err, repository.ErrDuplicateActiveBooking) {
				return domainerrors.ErrDuplicateBooking
			}

			return errors.Wrap(err, "failed to create booking")
		}

		return repoFactory.NewAuditRepository().AppendAudit(ctx, &entity.BookingAudit{
			ID:        uuid.New(),
			BookingID: booking.ID,
			OrderID:   booking.OrderID,
			Action:    entity.AuditActionCreated,
			NewStatus: entity.BookingStatusScheduled,
			NewSlot:   entity.NewSlotSnapshot(slot),
		})
	})
	if err != nil {
		return nil, err
	}

	srv.afterCommit(ctx, booking, entity.AuditActionCreated, slot, nil, input.CustomerID)

	return bookingResult(booking, slot), nil
}

// Reschedule atomically moves an active booking to a new slot.
func (srv *bookingService) Reschedule(ctx context.Context, input *usecase.RescheduleBookingInput) (*usecase.BookingResult, error) {
	if input.OrderID == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("order ID is required")
	}

	newSlot, err := srv.admittedSlot(ctx, input.MerchantID, input.NewSlotID)
	if err != nil {
		return nil, err
	}

	var (
		booking *entity.Booking
		oldSlot *entity.Slot
	)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		bookingRepo := repoFactory.NewBookingRepository()
		slotRepo := repoFactory.NewSlotRepository()

		found, err := bookingRepo.FindActiveBookingByOrderID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				return domainerrors.ErrBookingNotFound
			}

			return errors.Wrap(err, "failed to find active booking")
		}
		booking = found

		if booking.SlotID == newSlot.ID {
			return domainerrors.ErrSameSlot
		}
		if booking.Fulfillment != newSlot.Fulfillment {
			return domainerrors.ErrValidationFailed.WrapMessage("new slot has a different fulfillment type")
		}

		previous, err := slotRepo.FindSlotByID(ctx, booking.SlotID)
		if err != nil {
			return errors.Wrap(err, "failed to find current slot")
		}
		oldSlot = previous

		// Reserve before releasing: if the new slot is full the old
		// reservation stays untouched.
		if err := slotRepo.ReserveCapacity(ctx, newSlot.ID); err != nil {
			return translateCapacityError(err)
		}
		if err := slotRepo.ReleaseCapacity(ctx, booking.SlotID); err != nil {
			return errors.Wrap(err, "failed to release previous slot")
		}

		previousStatus := booking.Status
		previousSlotID := booking.SlotID
		booking.SlotID = newSlot.ID
		booking.Status = entity.BookingStatusUpdated

		if err := bookingRepo.TransitionBooking(ctx, booking, previousSlotID, previousStatus); err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				return domainerrors.ErrBookingNotFound
			}

			return errors.Wrap(err, "failed to update booking")
		}

		return repoFactory.NewAuditRepository().AppendAudit(ctx, &entity.BookingAudit{
			ID:             uuid.New(),
			BookingID:      booking.ID,
			OrderID:        booking.OrderID,
			Action:         entity.AuditActionRescheduled,
			PreviousStatus: previousStatus,
			NewStatus:      entity.BookingStatusUpdated,
			PreviousSlot:   entity.NewSlotSnapshot(oldSlot),
			NewSlot:        entity.NewSlotSnapshot(newSlot),
		})
	})
	if err != nil {
		return nil, err
	}

	srv.afterCommit(ctx, booking, entity.AuditActionRescheduled, newSlot, oldSlot, "")

	return bookingResult(booking, newSlot), nil
}

// Cancel releases the booking's slot capacity and marks it canceled.
func (srv *bookingService) Cancel(ctx context.Context, input *usecase.CancelBookingInput) (*usecase.BookingResult, error) {
	if input.OrderID == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("order ID is required")
	}

	var (
		booking *entity.Booking
		slot    *entity.Slot
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		bookingRepo := repoFactory.NewBookingRepository()
		slotRepo := repoFactory.NewSlotRepository()

		found, err := bookingRepo.FindActiveBookingByOrderID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				return domainerrors.ErrBookingNotFound
			}

			return errors.Wrap(err, "failed to find active booking")
		}
		booking = found

		current, err := slotRepo.FindSlotByID(ctx, booking.SlotID)
		if err != nil {
			return errors.Wrap(err, "failed to find booked slot")
		}
		slot = current

		if err := slotRepo.ReleaseCapacity(ctx, booking.SlotID); err != nil {
			return errors.Wrap(err, "failed to release slot capacity")
		}

		previousStatus := booking.Status
		booking.Status = entity.BookingStatusCanceled

		if err := bookingRepo.TransitionBooking(ctx, booking, booking.SlotID, previousStatus); err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				return domainerrors.ErrBookingNotFound
			}

			return errors.Wrap(err, "failed to update booking")
		}

		return repoFactory.NewAuditRepository().AppendAudit(ctx, &entity.BookingAudit{
			ID:             uuid.New(),
			BookingID:      booking.ID,
			OrderID:        booking.OrderID,
			Action:         entity.AuditActionCanceled,
			PreviousStatus: previousStatus,
			NewStatus:      entity.BookingStatusCanceled,
			PreviousSlot:   entity.NewSlotSnapshot(slot),
		})
	})
	if err != nil {
		return nil, err
	}

	srv.afterCommit(ctx, booking, entity.AuditActionCanceled, nil, slot, "")

	return bookingResult(booking, slot), nil
}

// PickupQR renders the check-in QR code for an active pickup booking.
func (srv *bookingService) PickupQR(ctx context.Context, orderID string) (*usecase.PickupQRResult, error) {
	booking, err := srv.bookingRepo.FindActiveBookingByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, domainerrors.ErrBookingNotFound
		}

		return nil, errors.Wrap(err, "failed to find active booking")
	}

	if booking.Fulfillment != entity.FulfillmentPickup {
		return nil, domainerrors.ErrPickupOnly
	}

	png, err := srv.qrcodeService.GeneratePickupQR(booking.ID, booking.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate pickup QR")
	}

	return &usecase.PickupQRResult{
		BookingID: booking.ID,
		OrderID:   booking.OrderID,
		PNG:       png,
	}, nil
}

// admittedSlot loads the slot, verifies merchant ownership, and checks the
// merchant's booking rules against it.
func (srv *bookingService) admittedSlot(ctx context.Context, merchantID, slotID uuid.UUID) (*entity.Slot, error) {
	slot, err := srv.slotRepo.FindSlotByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return nil, domainerrors.ErrSlotNotFound
		}

		return nil, errors.Wrap(err, "failed to find slot")
	}
	if !slot.IsActive {
		return nil, domainerrors.ErrSlotNotFound
	}

	location, err := srv.locationRepo.FindLocationByID(ctx, slot.LocationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find slot location")
	}
	if location.MerchantID != merchantID {
		return nil, domainerrors.ErrSlotNotFound
	}

	rules, err := srv.ruleRepo.FindActiveRulesByMerchant(ctx, merchantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load booking rules")
	}

	if len(scheduling.FilterSlots(time.Now(), []*entity.Slot{slot}, rules)) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("slot is no longer open for booking")
	}

	return slot, nil
}

// translateCapacityError maps ledger errors to their API-facing equivalents.
func translateCapacityError(err error) error {
	switch {
	case errors.Is(err, repository.ErrCapacityExceeded):
		return domainerrors.ErrSlotFull
	case errors.Is(err, repository.ErrSlotNotFound):
		return domainerrors.ErrSlotNotFound
	default:
		return errors.Wrap(err, "failed to reserve slot capacity")
	}
}

// afterCommit fans out the committed transition: one booking event to the
// configured publisher and, on creation, the customer's preference update.
// Both are best-effort; the audit row is already durable.
func (srv *bookingService) afterCommit(ctx context.Context, booking *entity.Booking, action entity.AuditAction, newSlot, previousSlot *entity.Slot, customerID string) {
	event := &service.BookingEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		BookingID:  booking.ID.String(),
		OrderID:    booking.OrderID,
		Action:     action,
		Status:     booking.Status,
		OccurredAt: time.Now(),
	}
	if newSlot != nil {
		event.SlotID = newSlot.ID.String()
	}
	if previousSlot != nil {
		event.PreviousSlotID = previousSlot.ID.String()
	}

	if err := srv.publisher.PublishBookingEvent(ctx, event); err != nil {
		srv.logger.Warn("Failed to publish booking event",
			slog.String("booking_id", booking.ID.String()),
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
	}

	if customerID != "" && newSlot != nil {
		srv.recordSelection(ctx, customerID, newSlot)
	}
}

// recordSelection folds the chosen slot into the customer's learned habits.
func (srv *bookingService) recordSelection(ctx context.Context, customerID string, slot *entity.Slot) {
	prefs, err := srv.preferenceRepo.FindPreferences(ctx, customerID)
	if err != nil {
		srv.logger.Warn("Failed to load preferences for update",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)

		return
	}

	prefs.RecordSelection(slot.Weekday(), slot.StartTime, slot.LocationID)

	if err := srv.preferenceRepo.SavePreferences(ctx, prefs); err != nil {
		srv.logger.Warn("Failed to save preferences",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}
}

// bookingResult shapes the API-facing view of a booking and its slot.
func bookingResult(booking *entity.Booking, slot *entity.Slot) *usecase.BookingResult {
	return &usecase.BookingResult{
		ID:          booking.ID,
		OrderID:     booking.OrderID,
		SlotID:      booking.SlotID,
		LocationID:  slot.LocationID,
		Fulfillment: booking.Fulfillment,
		Status:      booking.Status,
		Date:        slot.Date.Format("2006-01-02"),
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		UpdatedAt:   booking.UpdatedAt,
	}
}
