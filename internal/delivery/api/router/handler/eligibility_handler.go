package handler

import (
	"log/slog"
	"net/http"

	"slotwise/internal/delivery/api/response"
	"slotwise/internal/domain/entity"
	"slotwise/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// EligibilityHandlerParams holds dependencies for EligibilityHandler, injected by Fx.
type EligibilityHandlerParams struct {
	fx.In

	EligibilityUC usecase.EligibilityUsecase
	Logger        *slog.Logger
}

// EligibilityHandler holds dependencies for eligibility-related handlers
type EligibilityHandler struct {
	eligibilityUC usecase.EligibilityUsecase
	logger        *slog.Logger
}

// NewEligibilityHandler is the constructor for EligibilityHandler
func NewEligibilityHandler(params EligibilityHandlerParams) *EligibilityHandler {
	return &EligibilityHandler{
		eligibilityUC: params.EligibilityUC,
		logger:        params.Logger,
	}
}

// CheckEligibilityRequest represents the request body for a postcode eligibility check
type CheckEligibilityRequest struct {
	MerchantID  string   `json:"merchant_id" validate:"required,uuid"`
	Postcode    string   `json:"postcode" validate:"required"`
	Fulfillment string   `json:"fulfillment" validate:"omitempty,oneof=delivery pickup"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// CheckEligibility handles the postcode eligibility check
func (h *EligibilityHandler) CheckEligibility(c echo.Context) error {
	var req CheckEligibilityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid eligibility input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid merchant ID")
	}

	result, err := h.eligibilityUC.Check(c.Request().Context(), &usecase.CheckEligibilityInput{
		MerchantID:  merchantID,
		Postcode:    req.Postcode,
		Fulfillment: entity.FulfillmentType(req.Fulfillment),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}
