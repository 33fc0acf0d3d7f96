package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"venuebook/internal/entity"

	"github.com/lib/pq"
)

type venueRepository struct {
	db *sql.DB
}

func NewVenueRepository(db *sql.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	query := `
		INSERT INTO venues (id, name, description, location, capacity, price_per_day, amenities, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		venue.ID,
		venue.Name,
		venue.Description,
		venue.Location,
		venue.Capacity,
		venue.PricePerDay,
		pq.Array(venue.Amenities),
		pq.Array(venue.Images),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}

	venue.CreatedAt = now
	venue.UpdatedAt = now
	return nil
}

// GetByID retrieves a venue together with its availability ledger, ordered by
// date. A venue with no ledger rows gets an empty ledger.
func (r *venueRepository) GetByID(ctx context.Context, id string) (*entity.Venue, error) {
	query := `
		SELECT id, name, description, location, capacity, price_per_day, amenities, images, created_at, updated_at
		FROM venues
		WHERE id = $1
	`

	var venue entity.Venue
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&venue.ID,
		&venue.Name,
		&venue.Description,
		&venue.Location,
		&venue.Capacity,
		&venue.PricePerDay,
		pq.Array(&venue.Amenities),
		pq.Array(&venue.Images),
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}

	ledger, err := r.loadLedger(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	venue.UnavailableDates = ledger

	return &venue, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *venueRepository) loadLedger(ctx context.Context, q queryer, venueID string) (entity.Ledger, error) {
	query := `
		SELECT date, reason
		FROM venue_unavailable_dates
		WHERE venue_id = $1
		ORDER BY date ASC
	`

	rows, err := q.QueryContext(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailable dates: %w", err)
	}
	defer rows.Close()

	ledger := entity.Ledger{}
	for rows.Next() {
		var entry entity.AvailabilityEntry
		if err := rows.Scan(&entry.Date, &entry.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan availability entry: %w", err)
		}
		ledger = append(ledger, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unavailable dates: %w", err)
	}

	return ledger, nil
}

func (r *venueRepository) GetAll(ctx context.Context) ([]*entity.Venue, error) {
	return r.queryVenues(ctx, `
		SELECT id, name, description, location, capacity, price_per_day, amenities, images, created_at, updated_at
		FROM venues
		ORDER BY name ASC
	`)
}

func (r *venueRepository) SearchByName(ctx context.Context, name string) ([]*entity.Venue, error) {
	query := `
		SELECT id, name, description, location, capacity, price_per_day, amenities, images, created_at, updated_at
		FROM venues
		WHERE name ILIKE $1 OR location ILIKE $1
		ORDER BY name ASC
	`

	searchPattern := "%" + name + "%"
	return r.queryVenues(ctx, query, searchPattern)
}

func (r *venueRepository) queryVenues(ctx context.Context, query string, args ...interface{}) ([]*entity.Venue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	var venues []*entity.Venue
	for rows.Next() {
		var venue entity.Venue
		err := rows.Scan(
			&venue.ID,
			&venue.Name,
			&venue.Description,
			&venue.Location,
			&venue.Capacity,
			&venue.PricePerDay,
			pq.Array(&venue.Amenities),
			pq.Array(&venue.Images),
			&venue.CreatedAt,
			&venue.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, &venue)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating venues: %w", err)
	}

	for _, venue := range venues {
		ledger, err := r.loadLedger(ctx, r.db, venue.ID)
		if err != nil {
			return nil, err
		}
		venue.UnavailableDates = ledger
	}

	return venues, nil
}

func (r *venueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	query := `
		UPDATE venues
		SET name = $1, description = $2, location = $3, capacity = $4,
		    price_per_day = $5, amenities = $6, images = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		venue.Name,
		venue.Description,
		venue.Location,
		venue.Capacity,
		venue.PricePerDay,
		pq.Array(venue.Amenities),
		pq.Array(venue.Images),
		time.Now(),
		venue.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update venue: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrVenueNotFound
	}

	return nil
}

// Delete removes the venue and its ledger rows. Bookings referencing the
// venue are intentionally left behind as historical records.
func (r *venueRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM venues WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrVenueNotFound
	}

	return nil
}

func (r *venueRepository) GetLedger(ctx context.Context, venueID string) (entity.Ledger, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM venues WHERE id = $1)`, venueID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check venue: %w", err)
	}
	if !exists {
		return nil, entity.ErrVenueNotFound
	}

	return r.loadLedger(ctx, r.db, venueID)
}

// BulkReserve blocks each date that is still free and reports a per-date
// outcome. Dates already carrying an entry of any reason are skipped, never
// double-listed.
func (r *venueRepository) BulkReserve(ctx context.Context, venueID string, dates []entity.CalendarDate, reason entity.UnavailableReason) ([]entity.DateOutcome, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockVenue(ctx, tx, venueID); err != nil {
		return nil, err
	}

	outcomes := make([]entity.DateOutcome, 0, len(dates))
	for _, date := range dates {
		// "insert if absent" as one conditional write; zero rows means the
		// day was already taken.
		result, err := tx.ExecContext(ctx, `
			INSERT INTO venue_unavailable_dates (venue_id, date, reason)
			VALUES ($1, $2, $3)
			ON CONFLICT (venue_id, date) DO NOTHING
		`, venueID, date, reason)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve date %s: %w", date, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}

		outcome := entity.OutcomeReserved
		if rowsAffected == 0 {
			outcome = entity.OutcomeAlreadyUnavailable
		}
		outcomes = append(outcomes, entity.DateOutcome{Date: date, Outcome: outcome})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return outcomes, nil
}

// BulkRelease frees each date and reports a per-date outcome. Entries with
// reason booked belong to a confirmed booking and are retained; releasing an
// absent date is an idempotent no-op.
func (r *venueRepository) BulkRelease(ctx context.Context, venueID string, dates []entity.CalendarDate) ([]entity.DateOutcome, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockVenue(ctx, tx, venueID); err != nil {
		return nil, err
	}

	outcomes := make([]entity.DateOutcome, 0, len(dates))
	for _, date := range dates {
		var reason entity.UnavailableReason
		err := tx.QueryRowContext(ctx, `
			SELECT reason FROM venue_unavailable_dates WHERE venue_id = $1 AND date = $2
		`, venueID, date).Scan(&reason)

		if err == sql.ErrNoRows {
			outcomes = append(outcomes, entity.DateOutcome{Date: date, Outcome: entity.OutcomeReleased})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to inspect date %s: %w", date, err)
		}

		if reason == entity.ReasonBooked {
			outcomes = append(outcomes, entity.DateOutcome{Date: date, Outcome: entity.OutcomeBookedRetained})
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM venue_unavailable_dates WHERE venue_id = $1 AND date = $2
		`, venueID, date); err != nil {
			return nil, fmt.Errorf("failed to release date %s: %w", date, err)
		}
		outcomes = append(outcomes, entity.DateOutcome{Date: date, Outcome: entity.OutcomeReleased})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return outcomes, nil
}

func (r *venueRepository) ReserveDate(ctx context.Context, venueID string, date entity.CalendarDate, reason entity.UnavailableReason) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO venue_unavailable_dates (venue_id, date, reason)
		VALUES ($1, $2, $3)
		ON CONFLICT (venue_id, date) DO NOTHING
	`, venueID, date, reason)
	if err != nil {
		return fmt.Errorf("failed to reserve date: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrDateUnavailable
	}

	return nil
}

// ReleaseDate removes the entry for the given day regardless of reason.
// Idempotent.
func (r *venueRepository) ReleaseDate(ctx context.Context, venueID string, date entity.CalendarDate) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM venue_unavailable_dates WHERE venue_id = $1 AND date = $2
	`, venueID, date)
	if err != nil {
		return fmt.Errorf("failed to release date: %w", err)
	}
	return nil
}

// lockVenue takes the venue row lock that serializes all ledger mutations for
// one venue; independent venues stay concurrent.
func lockVenue(ctx context.Context, tx *sql.Tx, venueID string) error {
	var dummy int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = $1 FOR UPDATE`, venueID).Scan(&dummy)
	if err == sql.ErrNoRows {
		return entity.ErrVenueNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock venue: %w", err)
	}
	return nil
}
