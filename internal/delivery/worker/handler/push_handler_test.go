package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"slotwise/config"
	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/repository"
	"slotwise/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlotRepo struct {
	slots        map[uuid.UUID]*entity.Slot
	cachedScores map[uuid.UUID]float64
	findErr      error
}

func (r *fakeSlotRepo) FindSlotByID(_ context.Context, id uuid.UUID) (*entity.Slot, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	slot, ok := r.slots[id]
	if !ok {
		return nil, repository.ErrSlotNotFound
	}

	return slot, nil
}

func (r *fakeSlotRepo) FindBookableSlots(_ context.Context, _ repository.SlotQuery) ([]*entity.Slot, error) {
	return nil, nil
}

func (r *fakeSlotRepo) ReserveCapacity(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeSlotRepo) ReleaseCapacity(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeSlotRepo) UpdateCachedScore(_ context.Context, id uuid.UUID, score float64) error {
	r.cachedScores[id] = score

	return nil
}

type fakeLocationRepo struct {
	locations map[uuid.UUID]*entity.Location
}

func (r *fakeLocationRepo) FindLocationByID(_ context.Context, id uuid.UUID) (*entity.Location, error) {
	location, ok := r.locations[id]
	if !ok {
		return nil, repository.ErrLocationNotFound
	}

	return location, nil
}

func (r *fakeLocationRepo) FindActiveLocationsByMerchant(_ context.Context, _ uuid.UUID) ([]*entity.Location, error) {
	return nil, nil
}

type fakeWeightRepo struct{}

func (r *fakeWeightRepo) FindWeightConfigByMerchant(_ context.Context, _ uuid.UUID) (*entity.WeightConfig, error) {
	return nil, repository.ErrWeightConfigNotFound
}

type pushFixture struct {
	handler   *PushHandler
	slotRepo *fakeSlotRepo
	slot     *entity.Slot
	slotID   uuid.UUID
}

func newPushFixture(t *testing.T) *pushFixture {
	t.Helper()

	merchantID := uuid.New()
	location := &entity.Location{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Name:       "Downtown Store",
		IsActive:   true,
	}
	slot := &entity.Slot{
		ID:          uuid.New(),
		LocationID:  location.ID,
		Date:        time.Now().AddDate(0, 0, 7),
		StartTime:   "10:00",
		EndTime:     "12:00",
		Capacity:    10,
		Booked:      4,
		Fulfillment: entity.FulfillmentDelivery,
		IsActive:    true,
	}

	slotRepo := &fakeSlotRepo{
		slots:        map[uuid.UUID]*entity.Slot{slot.ID: slot},
		cachedScores: map[uuid.UUID]float64{},
	}
	locationRepo := &fakeLocationRepo{
		locations: map[uuid.UUID]*entity.Location{location.ID: location},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &pushFixture{
		handler: &PushHandler{
			logger:       logger,
			slotRepo:     slotRepo,
			locationRepo: locationRepo,
			weightRepo:   &fakeWeightRepo{},
		},
		slotRepo: slotRepo,
		slot:     slot,
		slotID:   slot.ID,
	}
}

func pushBody(t *testing.T, event *service.BookingEvent) string {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	msg := PubSubMessage{Subscription: "projects/local/subscriptions/booking-events-sub"}
	msg.Message.Data = base64.StdEncoding.EncodeToString(payload)
	msg.Message.MessageID = "1"

	body, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(body)
}

func doPush(t *testing.T, h *PushHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandlePush(e.NewContext(req, rec)))

	return rec
}

func TestPushHandler_RefreshesCachedScore(t *testing.T) {
	fixture := newPushFixture(t)

	rec := doPush(t, fixture.handler, pushBody(t, &service.BookingEvent{
		BookingID:  uuid.NewString(),
		OrderID:    "order-1001",
		Action:     entity.AuditActionCreated,
		Status:     entity.BookingStatusScheduled,
		SlotID:     fixture.slotID.String(),
		OccurredAt: time.Now(),
	}))

	assert.Equal(t, http.StatusOK, rec.Code)

	score, ok := fixture.slotRepo.cachedScores[fixture.slotID]
	require.True(t, ok)
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestPushHandler_RescheduleRefreshesBothSlots(t *testing.T) {
	fixture := newPushFixture(t)

	previous := &entity.Slot{
		ID:          uuid.New(),
		LocationID:  fixture.slot.LocationID,
		Date:        fixture.slot.Date,
		StartTime:   "14:00",
		EndTime:     "16:00",
		Capacity:    10,
		Booked:      9,
		Fulfillment: entity.FulfillmentDelivery,
		IsActive:    true,
	}
	fixture.slotRepo.slots[previous.ID] = previous

	rec := doPush(t, fixture.handler, pushBody(t, &service.BookingEvent{
		BookingID:      uuid.NewString(),
		OrderID:        "order-1001",
		Action:         entity.AuditActionRescheduled,
		Status:         entity.BookingStatusUpdated,
		SlotID:         fixture.slotID.String(),
		PreviousSlotID: previous.ID.String(),
		OccurredAt:     time.Now(),
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, fixture.slotRepo.cachedScores, 2)

	// The fuller slot scores lower on the capacity factor
	assert.Less(t, fixture.slotRepo.cachedScores[previous.ID], fixture.slotRepo.cachedScores[fixture.slotID])
}

func TestPushHandler_MissingSlotIsAcked(t *testing.T) {
	fixture := newPushFixture(t)

	rec := doPush(t, fixture.handler, pushBody(t, &service.BookingEvent{
		BookingID:  uuid.NewString(),
		OrderID:    "order-1001",
		Action:     entity.AuditActionCanceled,
		Status:     entity.BookingStatusCanceled,
		SlotID:     uuid.NewString(),
		OccurredAt: time.Now(),
	}))

	// A deleted slot must not trigger a Pub/Sub retry loop
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, fixture.slotRepo.cachedScores)
}

func TestPushHandler_RepositoryErrorRequestsRetry(t *testing.T) {
	fixture := newPushFixture(t)
	fixture.slotRepo.findErr = context.DeadlineExceeded

	rec := doPush(t, fixture.handler, pushBody(t, &service.BookingEvent{
		BookingID:  uuid.NewString(),
		OrderID:    "order-1001",
		Action:     entity.AuditActionCreated,
		Status:     entity.BookingStatusScheduled,
		SlotID:     fixture.slotID.String(),
		OccurredAt: time.Now(),
	}))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPushHandler_InvalidBase64(t *testing.T) {
	fixture := newPushFixture(t)

	msg := PubSubMessage{}
	msg.Message.Data = "not-base64!!!"
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	rec := doPush(t, fixture.handler, string(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewPushHandler_VerifiesPushAuthOnlyForGoogleOutsideDevelop(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: "google"}}
	cfg.Env.Env = "production"

	h := NewPushHandler(PushHandlerParams{
		Config:       cfg,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		SlotRepo:     &fakeSlotRepo{cachedScores: map[uuid.UUID]float64{}},
		LocationRepo: &fakeLocationRepo{},
		WeightRepo:   &fakeWeightRepo{},
	})
	assert.True(t, h.verifyPushAuth)

	cfg.Env.Env = "develop"
	h = NewPushHandler(PushHandlerParams{
		Config:       cfg,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		SlotRepo:     &fakeSlotRepo{cachedScores: map[uuid.UUID]float64{}},
		LocationRepo: &fakeLocationRepo{},
		WeightRepo:   &fakeWeightRepo{},
	})
	assert.False(t, h.verifyPushAuth)
}
