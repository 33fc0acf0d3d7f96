package entity

import "errors"

var (
	// Venue errors
	ErrVenueNotFound      = errors.New("venue not found")
	ErrVenueAlreadyExists = errors.New("venue already exists")

	// Availability errors
	ErrDateUnavailable = errors.New("date already unavailable")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAction   = errors.New("invalid availability action")

	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// General errors
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("concurrent update detected")
	ErrPartialFailure = errors.New("booking and availability ledger diverged")
	ErrDatabaseError  = errors.New("database error")
)
