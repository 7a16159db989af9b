package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/islandhop/booking-backend/internal/models"
)

// In-memory store fakes. memSlotStore mirrors the conditional-update
// semantics of the Postgres repository, including its linearizable
// reserve, so concurrency behaviour can be tested without a database.

type memSlotStore struct {
	mu    sync.Mutex
	slots map[string]*models.Slot
}

func newMemSlotStore() *memSlotStore {
	return &memSlotStore{slots: make(map[string]*models.Slot)}
}

func slotMapKey(key models.SlotKey) string {
	return key.PackageID.String() + "|" + key.Date.Format("2006-01-02") + "|" + key.StartTime
}

func (m *memSlotStore) put(slot *models.Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *slot
	m.slots[slotMapKey(slot.Key())] = &copied
}

func (m *memSlotStore) GetAvailability(packageID uuid.UUID, date time.Time) ([]models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Slot
	day := date.Format("2006-01-02")
	for _, slot := range m.slots {
		if slot.PackageID == packageID && slot.Date.Format("2006-01-02") == day {
			out = append(out, *slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *memSlotStore) GetSlot(key models.SlotKey) (*models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotMapKey(key)]
	if !ok {
		return nil, models.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (m *memSlotStore) Reserve(key models.SlotKey, delta int) error {
	if delta <= 0 {
		return fmt.Errorf("reserve delta must be positive, got %d", delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotMapKey(key)]
	if !ok {
		return models.ErrSlotNotFound
	}
	if !slot.IsAvailable || slot.BookedCount+delta > slot.Capacity {
		return models.ErrCapacityExceeded
	}
	slot.BookedCount += delta
	return nil
}

func (m *memSlotStore) Release(key models.SlotKey, delta int) error {
	if delta <= 0 {
		return fmt.Errorf("release delta must be positive, got %d", delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotMapKey(key)]
	if !ok {
		return models.ErrSlotNotFound
	}
	if slot.BookedCount-delta < 0 {
		return fmt.Errorf("release would underflow")
	}
	slot.BookedCount -= delta
	return nil
}

func (m *memSlotStore) CreateSlot(slot *models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := slotMapKey(slot.Key())
	if _, exists := m.slots[k]; exists {
		return fmt.Errorf("slot already exists")
	}
	slot.ID = uuid.New()
	slot.IsAvailable = true
	slot.BookedCount = 0
	copied := *slot
	m.slots[k] = &copied
	return nil
}

func (m *memSlotStore) SetAvailability(key models.SlotKey, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotMapKey(key)]
	if !ok {
		return models.ErrSlotNotFound
	}
	slot.IsAvailable = available
	return nil
}

func (m *memSlotStore) SetCurrentMinimum(key models.SlotKey, minimum int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotMapKey(key)]
	if !ok {
		return models.ErrSlotNotFound
	}
	slot.CurrentMinimum = minimum
	return nil
}

type memPackageStore struct {
	packages map[uuid.UUID]*models.Package
}

func newMemPackageStore(packages ...*models.Package) *memPackageStore {
	m := &memPackageStore{packages: make(map[uuid.UUID]*models.Package)}
	for _, pkg := range packages {
		m.packages[pkg.ID] = pkg
	}
	return m
}

func (m *memPackageStore) GetByID(packageID uuid.UUID) (*models.Package, error) {
	pkg, ok := m.packages[packageID]
	if !ok {
		return nil, models.ErrPackageNotFound
	}
	return pkg, nil
}

func (m *memPackageStore) ListByType(packageType models.PackageType) ([]models.Package, error) {
	var out []models.Package
	for _, pkg := range m.packages {
		if pkg.PackageType == packageType {
			out = append(out, *pkg)
		}
	}
	return out, nil
}

type memCartStore struct {
	mu      sync.Mutex
	intents map[uuid.UUID]*models.ReservationIntent
	seq     int
}

func newMemCartStore() *memCartStore {
	return &memCartStore{intents: make(map[uuid.UUID]*models.ReservationIntent)}
}

func (m *memCartStore) AddIntent(intent *models.ReservationIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	intent.ID = uuid.New()
	m.seq++
	intent.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	copied := *intent
	m.intents[intent.ID] = &copied
	return nil
}

func (m *memCartStore) GetIntent(intentID, userID uuid.UUID) (*models.ReservationIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	intent, ok := m.intents[intentID]
	if !ok || intent.UserID != userID {
		return nil, models.ErrIntentNotFound
	}
	copied := *intent
	return &copied, nil
}

func (m *memCartStore) ListByUser(userID uuid.UUID) ([]models.ReservationIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReservationIntent
	for _, intent := range m.intents {
		if intent.UserID == userID {
			out = append(out, *intent)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memCartStore) CountByUser(userID uuid.UUID) (int, error) {
	intents, _ := m.ListByUser(userID)
	return len(intents), nil
}

func (m *memCartStore) UpdateIntent(intent *models.ReservationIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.intents[intent.ID]
	if !ok || existing.UserID != intent.UserID {
		return models.ErrIntentNotFound
	}
	copied := *intent
	copied.CreatedAt = existing.CreatedAt
	m.intents[intent.ID] = &copied
	return nil
}

func (m *memCartStore) RemoveIntent(intentID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	intent, ok := m.intents[intentID]
	if !ok || intent.UserID != userID {
		return models.ErrIntentNotFound
	}
	delete(m.intents, intentID)
	return nil
}

func (m *memCartStore) Clear(userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, intent := range m.intents {
		if intent.UserID == userID {
			delete(m.intents, id)
		}
	}
	return nil
}

type memBookingStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*models.Booking
	failNext bool
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: make(map[uuid.UUID]*models.Booking)}
}

func (m *memBookingStore) Create(booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return fmt.Errorf("simulated insert failure")
	}
	booking.ID = uuid.New()
	if booking.Status == "" {
		booking.Status = models.BookingStatusConfirmed
	}
	copied := *booking
	m.bookings[booking.ID] = &copied
	return nil
}

func (m *memBookingStore) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	copied := *booking
	return &copied, nil
}

func (m *memBookingStore) GetByReference(reference string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, booking := range m.bookings {
		if booking.BookingReference == reference {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memBookingStore) ListByUser(userID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, booking := range m.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (m *memBookingStore) UpdateStatus(bookingID uuid.UUID, status models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[bookingID]
	if !ok || booking.Status == models.BookingStatusCancelled {
		return fmt.Errorf("booking not found or already cancelled")
	}
	booking.Status = status
	return nil
}
