package service

import (
	"context"

	"venuebook/internal/entity"
)

type VenueService interface {
	// Catalog operations
	CreateVenue(ctx context.Context, req *CreateVenueRequest) (*entity.Venue, error)
	GetVenue(ctx context.Context, id string) (*entity.Venue, error)
	GetAllVenues(ctx context.Context) ([]*entity.Venue, error)
	UpdateVenue(ctx context.Context, id string, req *UpdateVenueRequest) (*entity.Venue, error)
	DeleteVenue(ctx context.Context, id string) error
	SearchVenues(ctx context.Context, query string) ([]*entity.Venue, error)

	// Reporting
	GetVenueBookings(ctx context.Context, venueID string) ([]*entity.Booking, error)
	GetVenueStats(ctx context.Context, venueID string) (*entity.VenueBookingStats, error)
}

// AvailabilityService owns the per-venue availability ledger: reading it,
// checking single dates against it, and the operator-driven block, unblock
// and maintenance mutations.
type AvailabilityService interface {
	GetLedger(ctx context.Context, venueID string) (entity.Ledger, error)
	CheckDate(ctx context.Context, venueID string, rawDate string) (*DateStatus, error)
	SetAvailability(ctx context.Context, venueID string, req *SetAvailabilityRequest) ([]entity.DateOutcome, error)

	// Reconcile scans for confirmed bookings whose booked ledger entry is
	// missing and restores the entries.
	Reconcile(ctx context.Context) (*entity.ReconcileReport, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, req *CreateBookingRequest) (*entity.Booking, error)
	GetBooking(ctx context.Context, id string) (*entity.Booking, error)
	GetAllBookings(ctx context.Context) ([]*entity.Booking, error)
	GetBookingsByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)
}
