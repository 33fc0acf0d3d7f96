package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"venuebook/internal/entity"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create admits a booking. The whole admission runs in one transaction:
// the venue row is locked, the booking date is claimed in the ledger with a
// single conditional insert, and only then is the booking row written. If the
// date is already taken the transaction rolls back and nothing is recorded,
// so a booking row can never exist without its ledger entry.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The stored venue price is authoritative; whatever the caller supplied
	// is overwritten.
	var pricePerDay float64
	err = tx.QueryRowContext(ctx, `
		SELECT price_per_day FROM venues WHERE id = $1 FOR UPDATE
	`, booking.VenueID).Scan(&pricePerDay)
	if err == sql.ErrNoRows {
		return entity.ErrVenueNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock venue: %w", err)
	}
	booking.TotalAmount = pricePerDay

	result, err := tx.ExecContext(ctx, `
		INSERT INTO venue_unavailable_dates (venue_id, date, reason)
		VALUES ($1, $2, $3)
		ON CONFLICT (venue_id, date) DO NOTHING
	`, booking.VenueID, booking.BookingDate, entity.ReasonBooked)
	if err != nil {
		return fmt.Errorf("failed to reserve booking date: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrDateUnavailable
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, venue_id, customer_name, customer_email, customer_phone,
		                      booking_date, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		booking.ID,
		booking.VenueID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.BookingDate,
		booking.TotalAmount,
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

const bookingColumns = `id, venue_id, customer_name, customer_email, customer_phone,
       booking_date, total_amount, status, created_at, updated_at`

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking entity.Booking
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.VenueID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.BookingDate,
		&booking.TotalAmount,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *bookingRepository) GetAll(ctx context.Context) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	return r.queryBookings(ctx, query)
}

func (r *bookingRepository) GetByVenueID(ctx context.Context, venueID string) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE venue_id = $1 ORDER BY booking_date ASC`
	return r.queryBookings(ctx, query, venueID)
}

func (r *bookingRepository) GetByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY created_at DESC`
	return r.queryBookings(ctx, query, status)
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*entity.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.VenueID,
			&booking.CustomerName,
			&booking.CustomerEmail,
			&booking.CustomerPhone,
			&booking.BookingDate,
			&booking.TotalAmount,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) GetVenueStats(ctx context.Context, venueID string) (*entity.VenueBookingStats, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM venues WHERE id = $1)`, venueID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check venue: %w", err)
	}
	if !exists {
		return nil, entity.ErrVenueNotFound
	}

	stats := &entity.VenueBookingStats{}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'confirmed'), 0)
		FROM bookings
		WHERE venue_id = $1
	`, venueID).Scan(
		&stats.TotalBookings,
		&stats.ConfirmedBookings,
		&stats.PendingBookings,
		&stats.CancelledBookings,
		&stats.Revenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE reason = 'booked'),
			COUNT(*) FILTER (WHERE reason <> 'booked')
		FROM venue_unavailable_dates
		WHERE venue_id = $1
	`, venueID).Scan(&stats.BookedDates, &stats.BlockedDates)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger stats: %w", err)
	}

	return stats, nil
}

// GetConfirmedWithoutLedgerEntry finds confirmed bookings on still-existing
// venues whose booked ledger entry is missing. These are the divergences the
// reconciliation worker repairs.
func (r *bookingRepository) GetConfirmedWithoutLedgerEntry(ctx context.Context, limit int) ([]*entity.Booking, error) {
	query := `
		SELECT b.id, b.venue_id, b.customer_name, b.customer_email, b.customer_phone,
		       b.booking_date, b.total_amount, b.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN venues v ON v.id = b.venue_id
		LEFT JOIN venue_unavailable_dates d
		       ON d.venue_id = b.venue_id AND d.date = b.booking_date
		WHERE b.status = 'confirmed' AND d.venue_id IS NULL
		ORDER BY b.created_at ASC
		LIMIT $1
	`
	return r.queryBookings(ctx, query, limit)
}
