package transport

import (
	"net/http"

	"venuebook/internal/service"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityService service.AvailabilityService
}

func NewAvailabilityHandler(availabilityService service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// GetAvailability returns the venue's unavailable dates. With ?date= it
// instead answers whether that single day is open.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	ctx := c.Request.Context()
	venueID := c.Param("id")

	if date := c.Query("date"); date != "" {
		status, err := h.availabilityService.CheckDate(ctx, venueID, date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
		return
	}

	ledger, err := h.availabilityService.GetLedger(ctx, venueID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venue_id":          venueID,
		"unavailable_dates": ledger,
	})
}

func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	var req service.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	outcomes, err := h.availabilityService.SetAvailability(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venue_id": c.Param("id"),
		"action":   req.Action,
		"results":  outcomes,
	})
}

func (h *AvailabilityHandler) Reconcile(c *gin.Context) {
	report, err := h.availabilityService.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
