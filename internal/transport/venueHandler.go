package transport

import (
	"net/http"

	"venuebook/internal/service"

	"github.com/gin-gonic/gin"
)

type VenueHandler struct {
	venueService service.VenueService
}

func NewVenueHandler(venueService service.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

func (h *VenueHandler) CreateVenue(c *gin.Context) {
	var req service.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	venue, err := h.venueService.CreateVenue(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, venue)
}

// GetAllVenues lists venues; ?q= filters by name or location.
func (h *VenueHandler) GetAllVenues(c *gin.Context) {
	venues, err := h.venueService.SearchVenues(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, venues)
}

func (h *VenueHandler) GetVenue(c *gin.Context) {
	venue, err := h.venueService.GetVenue(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, venue)
}

func (h *VenueHandler) UpdateVenue(c *gin.Context) {
	var req service.UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	venue, err := h.venueService.UpdateVenue(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, venue)
}

func (h *VenueHandler) DeleteVenue(c *gin.Context) {
	if err := h.venueService.DeleteVenue(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "venue deleted"})
}

func (h *VenueHandler) GetVenueBookings(c *gin.Context) {
	bookings, err := h.venueService.GetVenueBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *VenueHandler) GetVenueStats(c *gin.Context) {
	stats, err := h.venueService.GetVenueStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
