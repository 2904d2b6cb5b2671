package handler

import (
	"log/slog"
	"net/http"
	"time"

	"slotwise/internal/delivery/api/response"
	"slotwise/internal/domain/entity"
	"slotwise/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const dateLayout = "2006-01-02"

// RecommendationHandlerParams holds dependencies for RecommendationHandler, injected by Fx.
type RecommendationHandlerParams struct {
	fx.In

	RecommendationUC usecase.RecommendationUsecase
	Logger           *slog.Logger
}

// RecommendationHandler holds dependencies for recommendation-related handlers
type RecommendationHandler struct {
	recommendationUC usecase.RecommendationUsecase
	logger           *slog.Logger
}

// NewRecommendationHandler is the constructor for RecommendationHandler
func NewRecommendationHandler(params RecommendationHandlerParams) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationUC: params.RecommendationUC,
		logger:           params.Logger,
	}
}

// RecommendSlotsRequest represents the request body for ranking a location's slots
type RecommendSlotsRequest struct {
	MerchantID  string   `json:"merchant_id" validate:"required,uuid"`
	LocationID  string   `json:"location_id" validate:"required,uuid"`
	CustomerID  string   `json:"customer_id"`
	Fulfillment string   `json:"fulfillment" validate:"omitempty,oneof=delivery pickup"`
	Postcode    string   `json:"postcode"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	DateFrom    string   `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo      string   `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
}

// RecommendLocationsRequest represents the request body for ranking pickup locations
type RecommendLocationsRequest struct {
	MerchantID string   `json:"merchant_id" validate:"required,uuid"`
	CustomerID string   `json:"customer_id"`
	Postcode   string   `json:"postcode" validate:"required"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// RecommendSlots handles ranking the bookable slots of one location
func (h *RecommendationHandler) RecommendSlots(c echo.Context) error {
	var req RecommendSlotsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid recommendation input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid merchant ID")
	}

	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid location ID")
	}

	input := &usecase.RecommendSlotsInput{
		MerchantID:  merchantID,
		LocationID:  locationID,
		CustomerID:  req.CustomerID,
		Fulfillment: entity.FulfillmentType(req.Fulfillment),
		Postcode:    req.Postcode,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	// Validated above, so the parses cannot fail
	if req.DateFrom != "" {
		input.DateFrom, _ = time.Parse(dateLayout, req.DateFrom)
	}
	if req.DateTo != "" {
		input.DateTo, _ = time.Parse(dateLayout, req.DateTo)
	}

	result, err := h.recommendationUC.RecommendSlots(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// RecommendLocations handles ranking the merchant's eligible pickup locations
func (h *RecommendationHandler) RecommendLocations(c echo.Context) error {
	var req RecommendLocationsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid recommendation input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid merchant ID")
	}

	result, err := h.recommendationUC.RecommendLocations(c.Request().Context(), &usecase.RecommendLocationsInput{
		MerchantID: merchantID,
		CustomerID: req.CustomerID,
		Postcode:   req.Postcode,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}
