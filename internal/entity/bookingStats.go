package entity

// VenueBookingStats aggregates the booking history of one venue.
type VenueBookingStats struct {
	TotalBookings     int     `json:"total_bookings"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	PendingBookings   int     `json:"pending_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	Revenue           float64 `json:"revenue"`
	BlockedDates      int     `json:"blocked_dates"`
	BookedDates       int     `json:"booked_dates"`
}

// ReconcileReport summarizes one pass of the ledger reconciliation: confirmed
// bookings whose booked entry was missing, and how many could be restored.
type ReconcileReport struct {
	Checked  int      `json:"checked"`
	Diverged int      `json:"diverged"`
	Repaired int      `json:"repaired"`
	Failed   int      `json:"failed"`
	Bookings []string `json:"bookings,omitempty"`
}
