package service

import (
	"context"
	"testing"

	"venuebook/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVenueFixture(t *testing.T) (*fakeStore, VenueService) {
	t.Helper()
	store := newFakeStore()
	venueRepo := &fakeVenueRepo{store: store}
	bookingRepo := &fakeBookingRepo{store: store}
	return store, NewVenueService(venueRepo, bookingRepo, nil)
}

func TestCreateVenue(t *testing.T) {
	_, svc := newVenueFixture(t)

	venue, err := svc.CreateVenue(context.Background(), &CreateVenueRequest{
		Name:        "Grand Hall",
		Location:    "Main Street 1",
		Capacity:    200,
		PricePerDay: 500,
		Amenities:   []string{"stage", "parking"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, venue.ID)
	assert.Equal(t, "Grand Hall", venue.Name)
	assert.Empty(t, venue.UnavailableDates)
}

func TestUpdateVenue(t *testing.T) {
	_, svc := newVenueFixture(t)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, &CreateVenueRequest{
		Name:        "Grand Hall",
		Location:    "Main Street 1",
		Capacity:    200,
		PricePerDay: 500,
	})
	require.NoError(t, err)

	newPrice := 750.0
	updated, err := svc.UpdateVenue(ctx, venue.ID, &UpdateVenueRequest{PricePerDay: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 750.0, updated.PricePerDay)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Grand Hall", updated.Name)
	assert.Equal(t, 200, updated.Capacity)

	badPrice := -1.0
	_, err = svc.UpdateVenue(ctx, venue.ID, &UpdateVenueRequest{PricePerDay: &badPrice})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	badCapacity := 0
	_, err = svc.UpdateVenue(ctx, venue.ID, &UpdateVenueRequest{Capacity: &badCapacity})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.UpdateVenue(ctx, uuid.New().String(), &UpdateVenueRequest{})
	assert.ErrorIs(t, err, entity.ErrVenueNotFound)
}

func TestVenueZeroPrice(t *testing.T) {
	_, svc := newVenueFixture(t)
	ctx := context.Background()

	// A free venue is legitimate, only negative prices are rejected.
	venue, err := svc.CreateVenue(ctx, &CreateVenueRequest{
		Name:        "Community Room",
		Location:    "Town Hall",
		Capacity:    50,
		PricePerDay: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, venue.PricePerDay)

	zeroPrice := 0.0
	updated, err := svc.UpdateVenue(ctx, venue.ID, &UpdateVenueRequest{PricePerDay: &zeroPrice})
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.PricePerDay)
}

func TestDeleteVenue(t *testing.T) {
	_, svc := newVenueFixture(t)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, &CreateVenueRequest{
		Name:        "Grand Hall",
		Location:    "Main Street 1",
		Capacity:    200,
		PricePerDay: 500,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteVenue(ctx, venue.ID))

	_, err = svc.GetVenue(ctx, venue.ID)
	assert.ErrorIs(t, err, entity.ErrVenueNotFound)

	assert.ErrorIs(t, svc.DeleteVenue(ctx, venue.ID), entity.ErrVenueNotFound)
}

func TestDeleteVenueKeepsBookings(t *testing.T) {
	store, svc := newVenueFixture(t)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, &CreateVenueRequest{
		Name:        "Grand Hall",
		Location:    "Main Street 1",
		Capacity:    200,
		PricePerDay: 500,
	})
	require.NoError(t, err)

	bookingSvc := NewBookingService(&fakeBookingRepo{store: store}, &fakeVenueRepo{store: store}, nil, nil)
	booking, err := bookingSvc.CreateBooking(ctx, &CreateBookingRequest{
		VenueID:       venue.ID,
		CustomerName:  "Alice Johnson",
		CustomerEmail: "alice@example.com",
		CustomerPhone: "555-0100",
		BookingDate:   "2025-06-01",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteVenue(ctx, venue.ID))

	// Bookings are historical records and survive their venue.
	kept, err := bookingSvc.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, venue.ID, kept.VenueID)
}

func TestSearchVenues(t *testing.T) {
	_, svc := newVenueFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Grand Hall", "Garden Pavilion", "Rooftop Terrace"} {
		_, err := svc.CreateVenue(ctx, &CreateVenueRequest{
			Name:        name,
			Location:    "Main Street 1",
			Capacity:    100,
			PricePerDay: 300,
		})
		require.NoError(t, err)
	}

	found, err := svc.SearchVenues(ctx, "gar")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Garden Pavilion", found[0].Name)

	all, err := svc.SearchVenues(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetVenueStats(t *testing.T) {
	store, svc := newVenueFixture(t)
	ctx := context.Background()

	venue, err := svc.CreateVenue(ctx, &CreateVenueRequest{
		Name:        "Grand Hall",
		Location:    "Main Street 1",
		Capacity:    200,
		PricePerDay: 500,
	})
	require.NoError(t, err)

	bookingSvc := NewBookingService(&fakeBookingRepo{store: store}, &fakeVenueRepo{store: store}, nil, nil)
	for _, date := range []string{"2025-06-01", "2025-06-02"} {
		_, err := bookingSvc.CreateBooking(ctx, &CreateBookingRequest{
			VenueID:       venue.ID,
			CustomerName:  "Alice Johnson",
			CustomerEmail: "alice@example.com",
			CustomerPhone: "555-0100",
			BookingDate:   date,
		})
		require.NoError(t, err)
	}

	availabilitySvc := NewAvailabilityService(&fakeVenueRepo{store: store}, &fakeBookingRepo{store: store}, nil, 0, 100)
	_, err = availabilitySvc.SetAvailability(ctx, venue.ID, &SetAvailabilityRequest{
		Action: ActionBlock,
		Dates:  []string{"2025-06-10"},
	})
	require.NoError(t, err)

	stats, err := svc.GetVenueStats(ctx, venue.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalBookings)
	assert.Equal(t, 2, stats.ConfirmedBookings)
	assert.Equal(t, 1000.0, stats.Revenue)
	assert.Equal(t, 2, stats.BookedDates)
	assert.Equal(t, 1, stats.BlockedDates)

	_, err = svc.GetVenueStats(ctx, uuid.New().String())
	assert.ErrorIs(t, err, entity.ErrVenueNotFound)
}
