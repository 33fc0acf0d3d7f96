package service

import (
	"context"
	"fmt"
	"strings"

	repository "venuebook/internal/database/postgres"
	"venuebook/internal/entity"
	"venuebook/pkg/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreateBookingRequest represents the payload for booking a venue for one day
type CreateBookingRequest struct {
	VenueID       string `json:"venue_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	BookingDate   string `json:"booking_date" binding:"required"`

	// TotalAmount is accepted for compatibility but ignored: the venue's
	// stored price is authoritative.
	TotalAmount float64 `json:"total_amount"`
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	venueRepo   repository.VenueRepository
	cache       LedgerCache
	telegramBot *telegram.Bot
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	venueRepo repository.VenueRepository,
	cache LedgerCache,
	telegramBot *telegram.Bot,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		venueRepo:   venueRepo,
		cache:       cache,
		telegramBot: telegramBot,
	}
}

// CreateBooking admits a booking for a single calendar day. Admission either
// claims the day in the venue's ledger and records the booking, or fails
// without a trace: entity.ErrDateUnavailable when the day is already taken,
// entity.ErrVenueNotFound when the venue does not exist. The charged amount
// is always the venue's stored price, not anything the caller sent.
func (s *bookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*entity.Booking, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer name is required", entity.ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return nil, fmt.Errorf("%w: customer email is required", entity.ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, fmt.Errorf("%w: customer phone is required", entity.ErrInvalidInput)
	}

	date, err := entity.ParseCalendarDate(req.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: booking date %q", entity.ErrInvalidDate, req.BookingDate)
	}

	booking := &entity.Booking{
		ID:            uuid.New().String(),
		VenueID:       req.VenueID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		BookingDate:   date,
		Status:        entity.BookingStatusConfirmed,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateLedger(ctx, booking.VenueID); err != nil {
			logrus.WithError(err).Warn("failed to invalidate availability cache")
		}
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"venue_id":   booking.VenueID,
		"date":       booking.BookingDate.String(),
		"amount":     booking.TotalAmount,
	}).Info("booking created")

	if s.telegramBot != nil {
		go s.sendBookingCreatedNotification(booking)
	}

	return booking, nil
}

func (s *bookingService) sendBookingCreatedNotification(booking *entity.Booking) {
	venue, err := s.venueRepo.GetByID(context.Background(), booking.VenueID)
	if err != nil {
		return
	}

	message := fmt.Sprintf(
		"New booking\n\nVenue: %s\nDate: %s\nCustomer: %s\nAmount: %.2f",
		venue.Name,
		booking.BookingDate.String(),
		booking.CustomerName,
		booking.TotalAmount,
	)

	if err := s.telegramBot.SendMessage(message); err != nil {
		logrus.WithError(err).Warn("failed to send booking notification")
	}
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) GetAllBookings(ctx context.Context) ([]*entity.Booking, error) {
	bookings, err := s.bookingRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) GetBookingsByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidBookingStatus, status)
	}

	bookings, err := s.bookingRepo.GetByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by status: %w", err)
	}
	return bookings, nil
}
