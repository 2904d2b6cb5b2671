package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"slotwise/internal/domain/entity"
	"slotwise/internal/domain/repository"
	"slotwise/internal/domain/service"
	"slotwise/internal/usecase"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is a mutex-guarded in-memory stand-in for the database, shared by
// the fake repositories so capacity accounting and booking uniqueness behave
// like the real store does.
type memStore struct {
	mu sync.Mutex

	slots     map[uuid.UUID]*entity.Slot
	bookings  map[uuid.UUID]*entity.Booking
	audits    []*entity.BookingAudit
	locations map[uuid.UUID]*entity.Location
	zones     []*entity.Zone
	rules     []*entity.Rule
	weights   map[uuid.UUID]*entity.WeightConfig
	prefs     map[string]*entity.CustomerPreferences

	// staleActiveBooking, when set, is served by the next
	// FindActiveBookingByOrderID call instead of the stored row. It
	// reproduces a read that happened before a concurrent transition
	// committed, which is what READ COMMITTED lets an unlocked SELECT do.
	staleActiveBooking *entity.Booking
}

func newMemStore() *memStore {
	return &memStore{
		slots:     make(map[uuid.UUID]*entity.Slot),
		bookings:  make(map[uuid.UUID]*entity.Booking),
		locations: make(map[uuid.UUID]*entity.Location),
		weights:   make(map[uuid.UUID]*entity.WeightConfig),
		prefs:     make(map[string]*entity.CustomerPreferences),
	}
}

func (s *memStore) addSlot(slot *entity.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := *slot
	s.slots[slot.ID] = &cloned
}

func (s *memStore) addLocation(location *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := *location
	s.locations[location.ID] = &cloned
}

// serveStaleRead arranges for the next active-booking lookup to observe the
// given pre-transition row, as if it had read before a concurrent commit.
func (s *memStore) serveStaleRead(booking *entity.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := *booking
	s.staleActiveBooking = &cloned
}

func (s *memStore) slotBooked(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.slots[id].Booked
}

func (s *memStore) auditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.audits)
}

// snapshot deep-copies the mutable state so a failed transaction can be
// rolled back.
type memSnapshot struct {
	slots    map[uuid.UUID]entity.Slot
	bookings map[uuid.UUID]entity.Booking
	audits   int
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memSnapshot{
		slots:    make(map[uuid.UUID]entity.Slot, len(s.slots)),
		bookings: make(map[uuid.UUID]entity.Booking, len(s.bookings)),
		audits:   len(s.audits),
	}
	for id, slot := range s.slots {
		snap.slots[id] = *slot
	}
	for id, booking := range s.bookings {
		snap.bookings[id] = *booking
	}

	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots = make(map[uuid.UUID]*entity.Slot, len(snap.slots))
	for id, slot := range snap.slots {
		cloned := slot
		s.slots[id] = &cloned
	}
	s.bookings = make(map[uuid.UUID]*entity.Booking, len(snap.bookings))
	for id, booking := range snap.bookings {
		cloned := booking
		s.bookings[id] = &cloned
	}
	s.audits = s.audits[:snap.audits]
}

// --- Fake repositories ---

type fakeSlotRepo struct{ store *memStore }

func (r *fakeSlotRepo) FindSlotByID(_ context.Context, id uuid.UUID) (*entity.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return nil, repository.ErrSlotNotFound
	}
	cloned := *slot

	return &cloned, nil
}

func (r *fakeSlotRepo) FindBookableSlots(_ context.Context, query repository.SlotQuery) ([]*entity.Slot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matchLocation := func(id uuid.UUID) bool {
		if len(query.LocationIDs) == 0 {
			return true
		}
		for _, want := range query.LocationIDs {
			if want == id {
				return true
			}
		}

		return false
	}

	slots := make([]*entity.Slot, 0, len(r.store.slots))
	for _, slot := range r.store.slots {
		if !slot.IsActive || !matchLocation(slot.LocationID) {
			continue
		}
		if query.Fulfillment != "" && slot.Fulfillment != query.Fulfillment {
			continue
		}
		if query.DateFrom != nil && slot.Date.Before(*query.DateFrom) {
			continue
		}
		if query.DateTo != nil && slot.Date.After(*query.DateTo) {
			continue
		}
		cloned := *slot
		slots = append(slots, &cloned)
	}

	return slots, nil
}

func (r *fakeSlotRepo) ReserveCapacity(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok || !slot.IsActive {
		return repository.ErrSlotNotFound
	}
	if slot.Booked >= slot.Capacity {
		return repository.ErrCapacityExceeded
	}
	slot.Booked++

	return nil
}

func (r *fakeSlotRepo) ReleaseCapacity(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return repository.ErrSlotNotFound
	}
	if slot.Booked <= 0 {
		return repository.ErrCapacityUnderflow
	}
	slot.Booked--

	return nil
}

func (r *fakeSlotRepo) UpdateCachedScore(_ context.Context, id uuid.UUID, score float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.slots[id]
	if !ok {
		return repository.ErrSlotNotFound
	}
	slot.CachedScore = &score

	return nil
}

type fakeBookingRepo struct{ store *memStore }

func (r *fakeBookingRepo) CreateBooking(_ context.Context, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.bookings {
		if existing.OrderID == booking.OrderID && existing.Status.IsActive() {
			return repository.ErrDuplicateActiveBooking
		}
	}

	cloned := *booking
	cloned.CreatedAt = time.Now()
	cloned.UpdatedAt = cloned.CreatedAt
	r.store.bookings[booking.ID] = &cloned
	booking.CreatedAt = cloned.CreatedAt
	booking.UpdatedAt = cloned.UpdatedAt

	return nil
}

func (r *fakeBookingRepo) FindActiveBookingByOrderID(_ context.Context, orderID string) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if stale := r.store.staleActiveBooking; stale != nil && stale.OrderID == orderID {
		r.store.staleActiveBooking = nil
		cloned := *stale

		return &cloned, nil
	}

	for _, booking := range r.store.bookings {
		if booking.OrderID == orderID && booking.Status.IsActive() {
			cloned := *booking

			return &cloned, nil
		}
	}

	return nil, repository.ErrBookingNotFound
}

func (r *fakeBookingRepo) FindBookingByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cloned := *booking

	return &cloned, nil
}

func (r *fakeBookingRepo) TransitionBooking(_ context.Context, booking *entity.Booking, fromSlotID uuid.UUID, fromStatus entity.BookingStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.bookings[booking.ID]
	if !ok || stored.SlotID != fromSlotID || stored.Status != fromStatus {
		return repository.ErrBookingNotFound
	}

	if booking.Status.IsActive() {
		for _, existing := range r.store.bookings {
			if existing.ID != booking.ID && existing.OrderID == booking.OrderID && existing.Status.IsActive() {
				return repository.ErrDuplicateActiveBooking
			}
		}
	}

	stored.SlotID = booking.SlotID
	stored.Status = booking.Status
	stored.WasRecommended = booking.WasRecommended
	stored.RecordedScore = booking.RecordedScore
	stored.UpdatedAt = time.Now()
	booking.UpdatedAt = stored.UpdatedAt

	return nil
}

func (r *fakeBookingRepo) FindScheduledDeliveries(_ context.Context, from, to time.Time) ([]entity.ScheduledDelivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	deliveries := make([]entity.ScheduledDelivery, 0)
	for _, booking := range r.store.bookings {
		if !booking.Status.IsActive() || booking.Fulfillment != entity.FulfillmentDelivery {
			continue
		}
		if booking.Latitude == nil || booking.Longitude == nil {
			continue
		}
		slot, ok := r.store.slots[booking.SlotID]
		if !ok || slot.Date.Before(from) || slot.Date.After(to) {
			continue
		}
		deliveries = append(deliveries, entity.ScheduledDelivery{
			SlotDate:  slot.Date,
			StartTime: slot.StartTime,
			Latitude:  *booking.Latitude,
			Longitude: *booking.Longitude,
		})
	}

	return deliveries, nil
}

type fakeAuditRepo struct{ store *memStore }

func (r *fakeAuditRepo) AppendAudit(_ context.Context, audit *entity.BookingAudit) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cloned := *audit
	cloned.CreatedAt = time.Now()
	r.store.audits = append(r.store.audits, &cloned)

	return nil
}

type fakeLocationRepo struct{ store *memStore }

func (r *fakeLocationRepo) FindLocationByID(_ context.Context, id uuid.UUID) (*entity.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	location, ok := r.store.locations[id]
	if !ok {
		return nil, repository.ErrLocationNotFound
	}
	cloned := *location

	return &cloned, nil
}

func (r *fakeLocationRepo) FindActiveLocationsByMerchant(_ context.Context, merchantID uuid.UUID) ([]*entity.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	locations := make([]*entity.Location, 0)
	for _, location := range r.store.locations {
		if location.MerchantID == merchantID && location.IsActive {
			cloned := *location
			locations = append(locations, &cloned)
		}
	}

	return locations, nil
}

type fakeZoneRepo struct{ store *memStore }

func (r *fakeZoneRepo) FindActiveZonesByMerchant(_ context.Context, merchantID uuid.UUID) ([]*entity.Zone, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	zones := make([]*entity.Zone, 0)
	for _, z := range r.store.zones {
		location, ok := r.store.locations[z.LocationID]
		if !ok || location.MerchantID != merchantID || !z.IsActive {
			continue
		}
		zones = append(zones, z)
	}

	return zones, nil
}

type fakeRuleRepo struct{ store *memStore }

func (r *fakeRuleRepo) FindActiveRulesByMerchant(_ context.Context, merchantID uuid.UUID) ([]*entity.Rule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rules := make([]*entity.Rule, 0)
	for _, rule := range r.store.rules {
		if rule.MerchantID == merchantID && rule.IsActive {
			rules = append(rules, rule)
		}
	}

	return rules, nil
}

type fakeWeightRepo struct{ store *memStore }

func (r *fakeWeightRepo) FindWeightConfigByMerchant(_ context.Context, merchantID uuid.UUID) (*entity.WeightConfig, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	weights, ok := r.store.weights[merchantID]
	if !ok {
		return nil, repository.ErrWeightConfigNotFound
	}
	cloned := *weights

	return &cloned, nil
}

type fakePreferenceRepo struct{ store *memStore }

func (r *fakePreferenceRepo) FindPreferences(_ context.Context, customerKey string) (*entity.CustomerPreferences, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	prefs, ok := r.store.prefs[customerKey]
	if !ok {
		return entity.NewCustomerPreferences(customerKey), nil
	}
	cloned := *prefs

	return &cloned, nil
}

func (r *fakePreferenceRepo) SavePreferences(_ context.Context, prefs *entity.CustomerPreferences) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cloned := *prefs
	r.store.prefs[prefs.CustomerKey] = &cloned

	return nil
}

// fakeTxManager serializes transactions with an outer mutex and restores a
// snapshot when the callback fails, mimicking commit/rollback semantics.
type fakeTxManager struct {
	store *memStore
	txMu  sync.Mutex
}

type fakeRepoFactory struct{ store *memStore }

func (f *fakeRepoFactory) NewSlotRepository() repository.SlotRepository {
	return &fakeSlotRepo{store: f.store}
}

func (f *fakeRepoFactory) NewBookingRepository() repository.BookingRepository {
	return &fakeBookingRepo{store: f.store}
}

func (f *fakeRepoFactory) NewAuditRepository() repository.AuditRepository {
	return &fakeAuditRepo{store: f.store}
}

func (tm *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	tm.txMu.Lock()
	defer tm.txMu.Unlock()

	snap := tm.store.snapshot()
	if err := fn(&fakeRepoFactory{store: tm.store}); err != nil {
		tm.store.restore(snap)

		return err
	}

	return nil
}

// --- Fake services ---

type fakePublisher struct {
	mu     sync.Mutex
	events []*service.BookingEvent
}

func (p *fakePublisher) PublishBookingEvent(_ context.Context, event *service.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.events)
}

type fakeQRCodeService struct{}

func (fakeQRCodeService) GeneratePickupQR(bookingID uuid.UUID, orderID string) ([]byte, error) {
	return []byte(bookingID.String() + "|" + orderID), nil
}

func (fakeQRCodeService) ParsePickupQR(string) (uuid.UUID, error) {
	return uuid.Nil, nil
}

// --- Test fixture ---

type bookingFixture struct {
	store     *memStore
	service   usecase.BookingUsecase
	publisher *fakePublisher
}

func newBookingFixture() *bookingFixture {
	store := newMemStore()
	publisher := &fakePublisher{}

	svc := NewBookingService(
		&fakeTxManager{store: store},
		&fakeBookingRepo{store: store},
		&fakeSlotRepo{store: store},
		&fakeLocationRepo{store: store},
		&fakeRuleRepo{store: store},
		&fakePreferenceRepo{store: store},
		publisher,
		fakeQRCodeService{},
		newDiscardLogger(),
	)

	return &bookingFixture{
		store:     store,
		service:   svc,
		publisher: publisher,
	}
}

func testLocation(merchantID uuid.UUID) *entity.Location {
	lat, lng := 51.5074, -0.1278

	return &entity.Location{
		ID:               uuid.New(),
		MerchantID:       merchantID,
		Name:             "Downtown Store",
		FullAddress:      "1 High Street",
		Latitude:         &lat,
		Longitude:        &lng,
		SupportsDelivery: true,
		SupportsPickup:   true,
		IsActive:         true,
	}
}

func testSlot(locationID uuid.UUID, fulfillment entity.FulfillmentType, capacity int) *entity.Slot {
	return &entity.Slot{
		ID:          uuid.New(),
		LocationID:  locationID,
		Date:        time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour),
		StartTime:   "10:00",
		EndTime:     "12:00",
		Capacity:    capacity,
		Fulfillment: fulfillment,
		IsActive:    true,
	}
}
