package transport

import (
	"errors"
	"net/http"
	"time"

	"venuebook/internal/entity"
	"venuebook/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

func InitRoutes(venueHandler *VenueHandler, bookingHandler *BookingHandler, availabilityHandler *AvailabilityHandler) *gin.Engine {

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	api := router.Group("/api/v1")
	{
		venues := api.Group("/venues")
		{
			venues.POST("", venueHandler.CreateVenue)
			venues.GET("", venueHandler.GetAllVenues)
			venues.GET("/:id", venueHandler.GetVenue)
			venues.PUT("/:id", venueHandler.UpdateVenue)
			venues.DELETE("/:id", venueHandler.DeleteVenue)

			venues.GET("/:id/availability", availabilityHandler.GetAvailability)
			venues.PATCH("/:id/availability", availabilityHandler.SetAvailability)

			venues.GET("/:id/bookings", venueHandler.GetVenueBookings)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.GetAllBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/bookings", bookingHandler.GetAllBookings)
			admin.GET("/venues/:id/stats", venueHandler.GetVenueStats)
			admin.POST("/reconcile", availabilityHandler.Reconcile)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	return router
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps domain errors onto HTTP statuses. Unknown errors become
// a generic 500 so internals do not leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrVenueNotFound),
		errors.Is(err, entity.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrDateUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidDate),
		errors.Is(err, entity.ErrInvalidAction),
		errors.Is(err, entity.ErrInvalidBookingStatus),
		errors.Is(err, entity.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
