package service

import (
	"context"
	"fmt"

	repository "venuebook/internal/database/postgres"
	"venuebook/internal/entity"

	"github.com/sirupsen/logrus"
)

// Availability actions accepted by SetAvailability. Anything else is
// rejected with entity.ErrInvalidAction.
const (
	ActionBlock       = "block"
	ActionUnblock     = "unblock"
	ActionMaintenance = "maintenance"
)

// SetAvailabilityRequest represents an operator mutation of a venue's ledger
type SetAvailabilityRequest struct {
	Action string   `json:"action" binding:"required"`
	Dates  []string `json:"dates" binding:"required"`
}

// DateStatus reports whether one calendar day is open for booking
type DateStatus struct {
	Date      entity.CalendarDate      `json:"date"`
	Available bool                     `json:"available"`
	Reason    entity.UnavailableReason `json:"reason,omitempty"`
}

// LedgerCache is the optional read cache in front of the ledger. A nil cache
// disables caching entirely.
type LedgerCache interface {
	GetLedger(ctx context.Context, venueID string) (entity.Ledger, error)
	SetLedger(ctx context.Context, venueID string, ledger entity.Ledger) error
	InvalidateLedger(ctx context.Context, venueID string) error
}

type availabilityService struct {
	venueRepo      repository.VenueRepository
	bookingRepo    repository.BookingRepository
	cache          LedgerCache
	maxBulkDates   int
	reconcileBatch int
}

func NewAvailabilityService(
	venueRepo repository.VenueRepository,
	bookingRepo repository.BookingRepository,
	cache LedgerCache,
	maxBulkDates int,
	reconcileBatch int,
) AvailabilityService {
	if reconcileBatch <= 0 {
		reconcileBatch = 100
	}
	return &availabilityService{
		venueRepo:      venueRepo,
		bookingRepo:    bookingRepo,
		cache:          cache,
		maxBulkDates:   maxBulkDates,
		reconcileBatch: reconcileBatch,
	}
}

// GetLedger returns the venue's unavailable dates, cached when a cache is
// configured. Cache misses and cache errors both fall through to postgres.
func (s *availabilityService) GetLedger(ctx context.Context, venueID string) (entity.Ledger, error) {
	if s.cache != nil {
		if ledger, err := s.cache.GetLedger(ctx, venueID); err == nil {
			return ledger, nil
		}
	}

	ledger, err := s.venueRepo.GetLedger(ctx, venueID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetLedger(ctx, venueID, ledger); err != nil {
			logrus.WithError(err).Warn("failed to populate availability cache")
		}
	}

	return ledger, nil
}

func (s *availabilityService) CheckDate(ctx context.Context, venueID string, rawDate string) (*DateStatus, error) {
	date, err := entity.ParseCalendarDate(rawDate)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", entity.ErrInvalidDate, rawDate)
	}

	ledger, err := s.GetLedger(ctx, venueID)
	if err != nil {
		return nil, err
	}

	status := &DateStatus{Date: date, Available: true}
	if entry, ok := ledger.Entry(date); ok {
		status.Available = false
		status.Reason = entry.Reason
	}

	return status, nil
}

// SetAvailability applies an operator action to a set of dates in one
// transaction and returns a per-date outcome for each. Blocking a taken day
// or unblocking a booked day is not an error; the outcome reports what
// happened instead.
func (s *availabilityService) SetAvailability(ctx context.Context, venueID string, req *SetAvailabilityRequest) ([]entity.DateOutcome, error) {
	if len(req.Dates) == 0 {
		return []entity.DateOutcome{}, nil
	}
	if s.maxBulkDates > 0 && len(req.Dates) > s.maxBulkDates {
		return nil, fmt.Errorf("%w: at most %d dates per request", entity.ErrInvalidInput, s.maxBulkDates)
	}

	dates := make([]entity.CalendarDate, 0, len(req.Dates))
	seen := make(map[string]bool, len(req.Dates))
	for _, raw := range req.Dates {
		date, err := entity.ParseCalendarDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q", entity.ErrInvalidDate, raw)
		}
		// duplicates collapse to one entry after normalization
		if seen[date.String()] {
			continue
		}
		seen[date.String()] = true
		dates = append(dates, date)
	}

	var (
		outcomes []entity.DateOutcome
		err      error
	)

	switch req.Action {
	case ActionBlock:
		outcomes, err = s.venueRepo.BulkReserve(ctx, venueID, dates, entity.ReasonBlocked)
	case ActionMaintenance:
		outcomes, err = s.venueRepo.BulkReserve(ctx, venueID, dates, entity.ReasonMaintenance)
	case ActionUnblock:
		outcomes, err = s.venueRepo.BulkRelease(ctx, venueID, dates)
	default:
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidAction, req.Action)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateLedger(ctx, venueID); err != nil {
			logrus.WithError(err).Warn("failed to invalidate availability cache")
		}
	}

	logrus.WithFields(logrus.Fields{
		"venue_id": venueID,
		"action":   req.Action,
		"dates":    len(dates),
	}).Info("availability updated")

	return outcomes, nil
}

// Reconcile restores missing booked ledger entries for confirmed bookings.
// A repair can still fail when the day has meanwhile been blocked or booked
// by someone else; those bookings are reported, not silently skipped.
func (s *availabilityService) Reconcile(ctx context.Context) (*entity.ReconcileReport, error) {
	diverged, err := s.bookingRepo.GetConfirmedWithoutLedgerEntry(ctx, s.reconcileBatch)
	if err != nil {
		return nil, fmt.Errorf("failed to find diverged bookings: %w", err)
	}

	report := &entity.ReconcileReport{
		Checked:  len(diverged),
		Diverged: len(diverged),
	}

	for _, booking := range diverged {
		err := s.venueRepo.ReserveDate(ctx, booking.VenueID, booking.BookingDate, entity.ReasonBooked)
		if err != nil {
			report.Failed++
			report.Bookings = append(report.Bookings, booking.ID)
			logrus.WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"venue_id":   booking.VenueID,
				"date":       booking.BookingDate.String(),
			}).WithError(err).Error("failed to repair ledger entry")
			continue
		}

		report.Repaired++
		if s.cache != nil {
			s.cache.InvalidateLedger(ctx, booking.VenueID)
		}
	}

	if report.Diverged > 0 {
		logrus.WithFields(logrus.Fields{
			"diverged": report.Diverged,
			"repaired": report.Repaired,
			"failed":   report.Failed,
		}).WithError(entity.ErrPartialFailure).Warn("ledger reconciliation found diverged bookings")
	}

	return report, nil
}
