package repository

import (
	"context"

	"venuebook/internal/entity"
)

type VenueRepository interface {
	// Catalog operations
	Create(ctx context.Context, venue *entity.Venue) error
	GetByID(ctx context.Context, id string) (*entity.Venue, error)
	GetAll(ctx context.Context) ([]*entity.Venue, error)
	SearchByName(ctx context.Context, name string) ([]*entity.Venue, error)
	Update(ctx context.Context, venue *entity.Venue) error
	Delete(ctx context.Context, id string) error

	// Ledger operations. Each bulk call runs in one transaction holding the
	// venue row lock, so ledger mutations for one venue are serialized.
	GetLedger(ctx context.Context, venueID string) (entity.Ledger, error)
	BulkReserve(ctx context.Context, venueID string, dates []entity.CalendarDate, reason entity.UnavailableReason) ([]entity.DateOutcome, error)
	BulkRelease(ctx context.Context, venueID string, dates []entity.CalendarDate) ([]entity.DateOutcome, error)
	ReserveDate(ctx context.Context, venueID string, date entity.CalendarDate, reason entity.UnavailableReason) error
	ReleaseDate(ctx context.Context, venueID string, date entity.CalendarDate) error
}

type BookingRepository interface {
	// Create runs the admission transaction: lock the venue row, reserve the
	// booking date in the ledger with a single conditional insert, then
	// insert the booking. The stored venue price is read inside the
	// transaction and overwrites booking.TotalAmount.
	Create(ctx context.Context, booking *entity.Booking) error

	// Query operations
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	GetAll(ctx context.Context) ([]*entity.Booking, error)
	GetByVenueID(ctx context.Context, venueID string) ([]*entity.Booking, error)
	GetByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error)

	// Statistical operations
	GetVenueStats(ctx context.Context, venueID string) (*entity.VenueBookingStats, error)

	// Reconciliation: confirmed bookings on still-existing venues whose
	// booked ledger entry is missing.
	GetConfirmedWithoutLedgerEntry(ctx context.Context, limit int) ([]*entity.Booking, error)
}
