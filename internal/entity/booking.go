package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// DefaultBookingStatus is the status of a booking record that has not gone
// through admission yet. Admission always sets confirmed explicitly.
const DefaultBookingStatus = BookingStatusPending

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking references its venue by id only. It survives deletion of the venue
// as a historical record.
type Booking struct {
	ID            string        `json:"id" db:"id"`
	VenueID       string        `json:"venue_id" db:"venue_id"`
	CustomerName  string        `json:"customer_name" db:"customer_name"`
	CustomerEmail string        `json:"customer_email" db:"customer_email"`
	CustomerPhone string        `json:"customer_phone" db:"customer_phone"`
	BookingDate   CalendarDate  `json:"booking_date" db:"booking_date"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Status        BookingStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}
