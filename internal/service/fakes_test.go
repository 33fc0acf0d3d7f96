package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"venuebook/internal/entity"
)

var errCacheMiss = errors.New("cache miss")

// fakeStore backs the in-memory repository fakes. Both fakes share one store
// so booking admission and availability administration see the same ledgers,
// the same way they share one database in production.
type fakeStore struct {
	mu       sync.Mutex
	venues   map[string]*entity.Venue
	bookings map[string]*entity.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		venues:   make(map[string]*entity.Venue),
		bookings: make(map[string]*entity.Booking),
	}
}

type fakeVenueRepo struct {
	store *fakeStore

	// reserveErr, when set, is returned by ReserveDate to simulate a repair
	// losing the race against a concurrent write.
	reserveErr error
}

func (r *fakeVenueRepo) Create(_ context.Context, venue *entity.Venue) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.venues[venue.ID] = venue
	return nil
}

func (r *fakeVenueRepo) GetByID(_ context.Context, id string) (*entity.Venue, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	venue, ok := r.store.venues[id]
	if !ok {
		return nil, entity.ErrVenueNotFound
	}
	copied := *venue
	copied.UnavailableDates = append(entity.Ledger{}, venue.UnavailableDates...)
	return &copied, nil
}

func (r *fakeVenueRepo) GetAll(_ context.Context) ([]*entity.Venue, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	venues := make([]*entity.Venue, 0, len(r.store.venues))
	for _, venue := range r.store.venues {
		venues = append(venues, venue)
	}
	return venues, nil
}

func (r *fakeVenueRepo) SearchByName(_ context.Context, name string) ([]*entity.Venue, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var venues []*entity.Venue
	for _, venue := range r.store.venues {
		if strings.Contains(strings.ToLower(venue.Name), strings.ToLower(name)) {
			venues = append(venues, venue)
		}
	}
	return venues, nil
}

func (r *fakeVenueRepo) Update(_ context.Context, venue *entity.Venue) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.venues[venue.ID]; !ok {
		return entity.ErrVenueNotFound
	}
	r.store.venues[venue.ID] = venue
	return nil
}

func (r *fakeVenueRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.venues[id]; !ok {
		return entity.ErrVenueNotFound
	}
	delete(r.store.venues, id)
	return nil
}

func (r *fakeVenueRepo) GetLedger(_ context.Context, venueID string) (entity.Ledger, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	venue, ok := r.store.venues[venueID]
	if !ok {
		return nil, entity.ErrVenueNotFound
	}
	return append(entity.Ledger{}, venue.UnavailableDates...), nil
}

func (r *fakeVenueRepo) BulkReserve(_ context.Context, venueID string, dates []entity.CalendarDate, reason entity.UnavailableReason) ([]entity.DateOutcome, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	venue, ok := r.store.venues[venueID]
	if !ok {
		return nil, entity.ErrVenueNotFound
	}
	ledger, outcomes := venue.UnavailableDates.BulkReserve(dates, reason)
	venue.UnavailableDates = ledger
	return outcomes, nil
}

func (r *fakeVenueRepo) BulkRelease(_ context.Context, venueID string, dates []entity.CalendarDate) ([]entity.DateOutcome, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	venue, ok := r.store.venues[venueID]
	if !ok {
		return nil, entity.ErrVenueNotFound
	}
	ledger, outcomes := venue.UnavailableDates.BulkRelease(dates)
	venue.UnavailableDates = ledger
	return outcomes, nil
}

func (r *fakeVenueRepo) ReserveDate(_ context.Context, venueID string, date entity.CalendarDate, reason entity.UnavailableReason) error {
	if r.reserveErr != nil {
		return r.reserveErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	venue, ok := r.store.venues[venueID]
	if !ok {
		return entity.ErrVenueNotFound
	}
	ledger, err := venue.UnavailableDates.Reserve(date, reason)
	if err != nil {
		return err
	}
	venue.UnavailableDates = ledger
	return nil
}

func (r *fakeVenueRepo) ReleaseDate(_ context.Context, venueID string, date entity.CalendarDate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	venue, ok := r.store.venues[venueID]
	if !ok {
		return entity.ErrVenueNotFound
	}
	venue.UnavailableDates = venue.UnavailableDates.Release(date)
	return nil
}

type fakeBookingRepo struct {
	store *fakeStore
}

// Create mirrors the admission transaction: venue must exist, the booking
// date must be claimable in the ledger, and the stored venue price overwrites
// whatever amount the caller carried.
func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	venue, ok := r.store.venues[booking.VenueID]
	if !ok {
		return entity.ErrVenueNotFound
	}

	ledger, err := venue.UnavailableDates.Reserve(booking.BookingDate, entity.ReasonBooked)
	if err != nil {
		return err
	}

	venue.UnavailableDates = ledger
	booking.TotalAmount = venue.PricePerDay
	r.store.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	return booking, nil
}

func (r *fakeBookingRepo) GetAll(_ context.Context) ([]*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	bookings := make([]*entity.Booking, 0, len(r.store.bookings))
	for _, booking := range r.store.bookings {
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func (r *fakeBookingRepo) GetByVenueID(_ context.Context, venueID string) ([]*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var bookings []*entity.Booking
	for _, booking := range r.store.bookings {
		if booking.VenueID == venueID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (r *fakeBookingRepo) GetByStatus(_ context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var bookings []*entity.Booking
	for _, booking := range r.store.bookings {
		if booking.Status == status {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (r *fakeBookingRepo) GetVenueStats(_ context.Context, venueID string) (*entity.VenueBookingStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	venue, ok := r.store.venues[venueID]
	if !ok {
		return nil, entity.ErrVenueNotFound
	}

	stats := &entity.VenueBookingStats{}
	for _, booking := range r.store.bookings {
		if booking.VenueID != venueID {
			continue
		}
		stats.TotalBookings++
		switch booking.Status {
		case entity.BookingStatusConfirmed:
			stats.ConfirmedBookings++
			stats.Revenue += booking.TotalAmount
		case entity.BookingStatusPending:
			stats.PendingBookings++
		case entity.BookingStatusCancelled:
			stats.CancelledBookings++
		}
	}
	for _, entry := range venue.UnavailableDates {
		if entry.Reason == entity.ReasonBooked {
			stats.BookedDates++
		} else {
			stats.BlockedDates++
		}
	}
	return stats, nil
}

func (r *fakeBookingRepo) GetConfirmedWithoutLedgerEntry(_ context.Context, limit int) ([]*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var diverged []*entity.Booking
	for _, booking := range r.store.bookings {
		if booking.Status != entity.BookingStatusConfirmed {
			continue
		}
		venue, ok := r.store.venues[booking.VenueID]
		if !ok {
			continue
		}
		if _, found := venue.UnavailableDates.Entry(booking.BookingDate); !found {
			diverged = append(diverged, booking)
		}
		if len(diverged) >= limit {
			break
		}
	}
	return diverged, nil
}

// fakeLedgerCache records cache traffic so tests can assert on hits and
// invalidations.
type fakeLedgerCache struct {
	mu            sync.Mutex
	ledgers       map[string]entity.Ledger
	hits          int
	invalidations int
}

func newFakeLedgerCache() *fakeLedgerCache {
	return &fakeLedgerCache{ledgers: make(map[string]entity.Ledger)}
}

func (c *fakeLedgerCache) GetLedger(_ context.Context, venueID string) (entity.Ledger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ledger, ok := c.ledgers[venueID]
	if !ok {
		return nil, errCacheMiss
	}
	c.hits++
	return ledger, nil
}

func (c *fakeLedgerCache) SetLedger(_ context.Context, venueID string, ledger entity.Ledger) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledgers[venueID] = ledger
	return nil
}

func (c *fakeLedgerCache) InvalidateLedger(_ context.Context, venueID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ledgers, venueID)
	c.invalidations++
	return nil
}
