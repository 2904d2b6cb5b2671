package handler

import (
	"log/slog"
	"net/http"

	"slotwise/internal/delivery/api/response"
	"slotwise/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// BookingHandlerParams holds dependencies for BookingHandler, injected by Fx.
type BookingHandlerParams struct {
	fx.In

	BookingUC usecase.BookingUsecase
	Logger    *slog.Logger
}

// BookingHandler holds dependencies for booking-related handlers
type BookingHandler struct {
	bookingUC usecase.BookingUsecase
	logger    *slog.Logger
}

// NewBookingHandler is the constructor for BookingHandler
func NewBookingHandler(params BookingHandlerParams) *BookingHandler {
	return &BookingHandler{
		bookingUC: params.BookingUC,
		logger:    params.Logger,
	}
}

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	MerchantID     string   `json:"merchant_id" validate:"required,uuid"`
	OrderID        string   `json:"order_id" validate:"required"`
	CustomerID     string   `json:"customer_id"`
	SlotID         string   `json:"slot_id" validate:"required,uuid"`
	Postcode       string   `json:"postcode"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,longitude"`
	WasRecommended bool     `json:"was_recommended"`
	RecordedScore  *float64 `json:"recorded_score" validate:"omitempty,gte=0,lte=1"`
}

// RescheduleBookingRequest represents the request body for rescheduling a booking
type RescheduleBookingRequest struct {
	MerchantID string `json:"merchant_id" validate:"required,uuid"`
	OrderID    string `json:"order_id" validate:"required"`
	NewSlotID  string `json:"new_slot_id" validate:"required,uuid"`
}

// CancelBookingRequest represents the request body for canceling a booking
type CancelBookingRequest struct {
	MerchantID string `json:"merchant_id" validate:"required,uuid"`
	OrderID    string `json:"order_id" validate:"required"`
}

// CreateBooking handles booking creation against a slot
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid booking input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid merchant ID")
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid slot ID")
	}

	booking, err := h.bookingUC.Create(c.Request().Context(), &usecase.CreateBookingInput{
		MerchantID:     merchantID,
		OrderID:        req.OrderID,
		CustomerID:     req.CustomerID,
		SlotID:         slotID,
		Postcode:       req.Postcode,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		WasRecommended: req.WasRecommended,
		RecordedScore:  req.RecordedScore,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, booking)
}

// RescheduleBooking handles moving an active booking to a new slot
func (h *BookingHandler) RescheduleBooking(c echo.Context) error {
	var req RescheduleBookingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reschedule input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid merchant ID")
	}

	newSlotID, err := uuid.Parse(req.NewSlotID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid slot ID")
	}

	booking, err := h.bookingUC.Reschedule(c.Request().Context(), &usecase.RescheduleBookingInput{
		MerchantID: merchantID,
		OrderID:    req.OrderID,
		NewSlotID:  newSlotID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, booking)
}

// CancelBooking handles releasing an active booking
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	var req CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cancel input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid merchant ID")
	}

	booking, err := h.bookingUC.Cancel(c.Request().Context(), &usecase.CancelBookingInput{
		MerchantID: merchantID,
		OrderID:    req.OrderID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, booking)
}

// PickupQR renders the check-in QR code PNG for an active pickup booking
func (h *BookingHandler) PickupQR(c echo.Context) error {
	orderID := c.Param("orderId")
	if orderID == "" {
		return response.BadRequest(c, "INVALID_ID", "Invalid order ID")
	}

	result, err := h.bookingUC.PickupQR(c.Request().Context(), orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", result.PNG)
}
