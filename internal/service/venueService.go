package service

import (
	"context"
	"fmt"

	repository "venuebook/internal/database/postgres"
	"venuebook/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreateVenueRequest represents the payload for registering a venue
type CreateVenueRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required,min=1"`
	PricePerDay float64  `json:"price_per_day" binding:"gte=0"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

// UpdateVenueRequest represents a partial venue update; nil fields are left
// unchanged
type UpdateVenueRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	Capacity    *int     `json:"capacity"`
	PricePerDay *float64 `json:"price_per_day"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

type venueService struct {
	venueRepo   repository.VenueRepository
	bookingRepo repository.BookingRepository
	cache       LedgerCache
}

func NewVenueService(venueRepo repository.VenueRepository, bookingRepo repository.BookingRepository, cache LedgerCache) VenueService {
	return &venueService{
		venueRepo:   venueRepo,
		bookingRepo: bookingRepo,
		cache:       cache,
	}
}

func (s *venueService) CreateVenue(ctx context.Context, req *CreateVenueRequest) (*entity.Venue, error) {
	venue := &entity.Venue{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Description:      req.Description,
		Location:         req.Location,
		Capacity:         req.Capacity,
		PricePerDay:      req.PricePerDay,
		Amenities:        req.Amenities,
		Images:           req.Images,
		UnavailableDates: entity.Ledger{},
	}

	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"venue_id": venue.ID,
		"name":     venue.Name,
	}).Info("venue created")

	return venue, nil
}

func (s *venueService) GetVenue(ctx context.Context, id string) (*entity.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *venueService) GetAllVenues(ctx context.Context) ([]*entity.Venue, error) {
	venues, err := s.venueRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get venues: %w", err)
	}
	return venues, nil
}

func (s *venueService) UpdateVenue(ctx context.Context, id string, req *UpdateVenueRequest) (*entity.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		venue.Name = *req.Name
	}
	if req.Description != nil {
		venue.Description = *req.Description
	}
	if req.Location != nil {
		venue.Location = *req.Location
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, fmt.Errorf("%w: capacity must be positive", entity.ErrInvalidInput)
		}
		venue.Capacity = *req.Capacity
	}
	if req.PricePerDay != nil {
		if *req.PricePerDay < 0 {
			return nil, fmt.Errorf("%w: price per day must be non-negative", entity.ErrInvalidInput)
		}
		venue.PricePerDay = *req.PricePerDay
	}
	if req.Amenities != nil {
		venue.Amenities = req.Amenities
	}
	if req.Images != nil {
		venue.Images = req.Images
	}

	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}

	return venue, nil
}

func (s *venueService) DeleteVenue(ctx context.Context, id string) error {
	if err := s.venueRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateLedger(ctx, id); err != nil {
			logrus.WithError(err).Warn("failed to invalidate availability cache")
		}
	}

	logrus.WithField("venue_id", id).Info("venue deleted")
	return nil
}

func (s *venueService) SearchVenues(ctx context.Context, query string) ([]*entity.Venue, error) {
	if query == "" {
		return s.GetAllVenues(ctx)
	}

	venues, err := s.venueRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search venues: %w", err)
	}
	return venues, nil
}

func (s *venueService) GetVenueBookings(ctx context.Context, venueID string) ([]*entity.Booking, error) {
	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByVenueID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue bookings: %w", err)
	}
	return bookings, nil
}

func (s *venueService) GetVenueStats(ctx context.Context, venueID string) (*entity.VenueBookingStats, error) {
	stats, err := s.bookingRepo.GetVenueStats(ctx, venueID)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
