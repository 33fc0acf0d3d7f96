package entity

import (
	"time"
)

type UnavailableReason string

const (
	ReasonBooked      UnavailableReason = "booked"
	ReasonBlocked     UnavailableReason = "blocked"
	ReasonMaintenance UnavailableReason = "maintenance"
)

func (r UnavailableReason) Valid() bool {
	switch r {
	case ReasonBooked, ReasonBlocked, ReasonMaintenance:
		return true
	}
	return false
}

// AvailabilityEntry marks one calendar day of a venue as not bookable.
// Entries are owned by their venue and are unique per (venue, day).
type AvailabilityEntry struct {
	Date   CalendarDate      `json:"date" db:"date"`
	Reason UnavailableReason `json:"reason" db:"reason"`
}

type Venue struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	Capacity    int       `json:"capacity" db:"capacity"`
	PricePerDay float64   `json:"price_per_day" db:"price_per_day"`
	Amenities   []string  `json:"amenities" db:"amenities"`
	Images      []string  `json:"images" db:"images"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// UnavailableDates is the venue's availability ledger, ordered by date.
	UnavailableDates Ledger `json:"unavailable_dates"`
}

// Ledger is the set of calendar days a venue cannot be booked, each tagged
// with the reason it is unavailable. A nil ledger is an empty ledger.
type Ledger []AvailabilityEntry

// IsAvailable reports whether the given day carries no entry, regardless of
// reason.
func (l Ledger) IsAvailable(date CalendarDate) bool {
	for _, entry := range l {
		if entry.Date.Equal(date) {
			return false
		}
	}
	return true
}

// Reserve appends an entry for the given day. It fails with
// ErrDateUnavailable if the day already carries an entry, whatever its
// reason, so a day is never listed twice.
func (l Ledger) Reserve(date CalendarDate, reason UnavailableReason) (Ledger, error) {
	if !l.IsAvailable(date) {
		return l, ErrDateUnavailable
	}
	return append(l, AvailabilityEntry{Date: date, Reason: reason}), nil
}

// Release removes the entry for the given day, regardless of reason.
// Releasing a day that carries no entry is a no-op, not an error.
func (l Ledger) Release(date CalendarDate) Ledger {
	for i, entry := range l {
		if entry.Date.Equal(date) {
			return append(l[:i:i], l[i+1:]...)
		}
	}
	return l
}

// Entry returns the ledger entry for the given day, if any.
func (l Ledger) Entry(date CalendarDate) (AvailabilityEntry, bool) {
	for _, entry := range l {
		if entry.Date.Equal(date) {
			return entry, true
		}
	}
	return AvailabilityEntry{}, false
}

// DateOutcome reports what happened to a single date during a bulk
// availability change.
type DateOutcome struct {
	Date    CalendarDate `json:"date"`
	Outcome Outcome      `json:"outcome"`
}

type Outcome string

const (
	OutcomeReserved           Outcome = "reserved"
	OutcomeAlreadyUnavailable Outcome = "already_unavailable"
	OutcomeReleased           Outcome = "released"
	OutcomeBookedRetained     Outcome = "booked_retained"
)

// BulkReserve applies Reserve for each date and reports a per-date outcome.
// Days that already carry an entry are skipped and reported, never
// double-listed.
func (l Ledger) BulkReserve(dates []CalendarDate, reason UnavailableReason) (Ledger, []DateOutcome) {
	outcomes := make([]DateOutcome, 0, len(dates))
	for _, date := range dates {
		next, err := l.Reserve(date, reason)
		if err != nil {
			outcomes = append(outcomes, DateOutcome{Date: date, Outcome: OutcomeAlreadyUnavailable})
			continue
		}
		l = next
		outcomes = append(outcomes, DateOutcome{Date: date, Outcome: OutcomeReserved})
	}
	return l, outcomes
}

// BulkRelease releases each date and reports a per-date outcome. Entries with
// reason "booked" are retained: they are owned by a confirmed booking and
// cannot be removed by administration.
func (l Ledger) BulkRelease(dates []CalendarDate) (Ledger, []DateOutcome) {
	outcomes := make([]DateOutcome, 0, len(dates))
	for _, date := range dates {
		if entry, ok := l.Entry(date); ok && entry.Reason == ReasonBooked {
			outcomes = append(outcomes, DateOutcome{Date: date, Outcome: OutcomeBookedRetained})
			continue
		}
		l = l.Release(date)
		outcomes = append(outcomes, DateOutcome{Date: date, Outcome: OutcomeReleased})
	}
	return l, outcomes
}
