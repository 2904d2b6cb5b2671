// Package handler contains the Pub/Sub push handlers of the worker.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"slotwise/config"
	deliverycontext "slotwise/internal/delivery/context"
	"slotwise/internal/domain/constants"
	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/geo"
	"slotwise/internal/domain/repository"
	"slotwise/internal/domain/scoring"
	"slotwise/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// PushHandler refreshes cached slot scores from booking events. Every
// capacity change moves the capacity factor, so the score snapshot written
// at recommendation time goes stale the moment a booking lands.
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	slotRepo       repository.SlotRepository
	locationRepo   repository.LocationRepository
	weightRepo     repository.WeightRepository
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config       *config.Config
	Logger       *slog.Logger
	SlotRepo     repository.SlotRepository
	LocationRepo repository.LocationRepository
	WeightRepo   repository.WeightRepository
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Determine if we need to verify push auth based on config
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		slotRepo:       params.SlotRepo,
		locationRepo:   params.LocationRepo,
		weightRepo:     params.WeightRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	// Verify Pub/Sub token in production for Google provider
	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	// Parse Pub/Sub message
	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Decode base64 message data
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Parse booking event
	var event service.BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse booking event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Extract request_id for distributed tracing
	// Priority: message attributes > event field > existing context
	requestID := h.extractRequestID(c, &pushMsg, &event)

	// Create request-scoped logger with request_id
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	// Update context with request_id and logger
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing booking event",
		slog.String("booking_id", event.BookingID),
		slog.String("order_id", event.OrderID),
		slog.String("action", string(event.Action)),
	)

	if err := h.refreshAffectedSlots(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to refresh slot scores",
			slog.String("booking_id", event.BookingID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry
		// Return 200 for non-retryable errors to prevent infinite retries
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Booking event processed successfully",
		slog.String("booking_id", event.BookingID),
	)

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(c echo.Context, pushMsg *PubSubMessage, event *service.BookingEvent) string {
	// 1. Try message attributes (from Pub/Sub)
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	// 2. Try event field (from JSON payload)
	if event.RequestID != "" {
		return event.RequestID
	}

	// 3. Try existing context (from RequestIDMiddleware via X-Request-Id header)
	if requestID := deliverycontext.GetRequestIDFromContext(c.Request().Context()); requestID != "" {
		return requestID
	}

	// 4. Generate new UUID as fallback
	return uuid.New().String()
}

// refreshAffectedSlots recomputes the cached score of every slot the event
// touched: the booked slot, and on reschedules the released one too.
func (h *PushHandler) refreshAffectedSlots(ctx context.Context, event *service.BookingEvent) error {
	for _, raw := range []string{event.SlotID, event.PreviousSlotID} {
		if raw == "" {
			continue
		}

		slotID, err := uuid.Parse(raw)
		if err != nil {
			return errors.WithStack(err)
		}

		if err := h.refreshSlot(ctx, slotID); err != nil {
			return err
		}
	}

	return nil
}

func (h *PushHandler) refreshSlot(ctx context.Context, slotID uuid.UUID) error {
	slot, err := h.slotRepo.FindSlotByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			// The slot was removed; nothing left to refresh
			return nil
		}

		return newRetryableError(errors.WithStack(err))
	}

	weights, err := h.loadWeights(ctx, slot.LocationID)
	if err != nil {
		return err
	}

	// The cached score carries no customer-side signal: only the capacity
	// factor is known here, the rest stays neutral
	score := scoring.CombinedScore(scoring.Factors{
		Capacity:        scoring.CapacityScore(slot.Capacity, slot.Booked),
		Distance:        geo.NeutralScore,
		RouteEfficiency: geo.NeutralScore,
		Personalization: geo.NeutralScore,
	}, weights)

	if err := h.slotRepo.UpdateCachedScore(ctx, slotID, score); err != nil {
		return newRetryableError(errors.WithStack(err))
	}

	h.logger.Debug("[Worker] Refreshed cached slot score",
		slog.String("slot_id", slotID.String()),
		slog.Float64("score", score),
	)

	return nil
}

func (h *PushHandler) loadWeights(ctx context.Context, locationID uuid.UUID) (*entity.WeightConfig, error) {
	location, err := h.locationRepo.FindLocationByID(ctx, locationID)
	if err != nil {
		return nil, newRetryableError(errors.WithStack(err))
	}

	weights, err := h.weightRepo.FindWeightConfigByMerchant(ctx, location.MerchantID)
	if err != nil {
		if errors.Is(err, repository.ErrWeightConfigNotFound) {
			return entity.DefaultWeightConfig(location.MerchantID), nil
		}

		return nil, newRetryableError(errors.WithStack(err))
	}

	return weights, nil
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	// Get the Authorization header
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	// Extract Bearer token
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// Construct the expected audience (the push endpoint URL)
	// The audience should be the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	// Validate the token using Google's ID token validator
	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	// Verify the token is from Google Pub/Sub
	// The issuer should be accounts.google.com
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	// Verify email is verified (if email claim exists)
	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
