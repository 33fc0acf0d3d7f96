package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"venuebook/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	// Read migration files and execute them
	// This is a simplified version - you might want to use a proper migration tool
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS venues (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			location TEXT NOT NULL,
			capacity INTEGER NOT NULL CHECK (capacity > 0),
			price_per_day NUMERIC(12,2) NOT NULL CHECK (price_per_day >= 0),
			amenities TEXT[] NOT NULL DEFAULT '{}',
			images TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// One row per unavailable calendar day. The unique constraint is what
		// makes "insert if absent" a single conditional write.
		`CREATE TABLE IF NOT EXISTS venue_unavailable_dates (
			venue_id UUID NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			reason VARCHAR(20) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (venue_id, date)
		)`,

		// No FK to venues: bookings are historical records and must survive
		// venue deletion.
		`CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			venue_id UUID NOT NULL,
			customer_name VARCHAR(255) NOT NULL,
			customer_email VARCHAR(255) NOT NULL,
			customer_phone VARCHAR(50) NOT NULL,
			booking_date DATE NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL CHECK (total_amount >= 0),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_unavailable_venue_id ON venue_unavailable_dates(venue_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_venue_id ON bookings(venue_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_venue_date ON bookings(venue_id, booking_date)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
