package handlers

import (
	"net/http"
	"strconv"

	"banglabnb/middleware"
	"banglabnb/services/trip"
	"banglabnb/utils"

	"github.com/gin-gonic/gin"
)

// TripHandler exposes the seat-reservation state machine over HTTP.
type TripHandler struct {
	Service trip.TripService
}

func NewTripHandler(svc trip.TripService) *TripHandler {
	return &TripHandler{Service: svc}
}

// CreateTrip handles POST /api/trips (driver role).
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var input trip.CreateTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.CreateTrip(c.Request.Context(), middleware.ActorID(c), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListAvailable handles GET /api/trips
func (h *TripHandler) ListAvailable(c *gin.Context) {
	trips, err := h.Service.ListAvailable(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTrip handles GET /api/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	found, err := h.Service.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// CheckSeats handles GET /api/trips/:id/seats?count=N
func (h *TripHandler) CheckSeats(c *gin.Context) {
	seats, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid seat count", err.Error())
		return
	}

	found, err := h.Service.CheckSeatAvailability(c.Request.Context(), c.Param("id"), middleware.ActorID(c), seats)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available":       true,
		"seats_available": found.SeatsAvailable(),
	})
}

// ReserveSeats handles POST /api/trips/:id/reserve
func (h *TripHandler) ReserveSeats(c *gin.Context) {
	var input trip.ReserveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input.TripID = c.Param("id")

	reserved, err := h.Service.ReserveSeats(c.Request.Context(), middleware.ActorID(c), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reserved)
}

// CancelReservation handles PATCH /api/trips/:id/reserve/cancel
func (h *TripHandler) CancelReservation(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	updated, err := h.Service.CancelReservation(c.Request.Context(), middleware.ActorID(c), c.Param("id"), input.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CancelTrip handles PATCH /api/trips/:id/cancel (driver role).
func (h *TripHandler) CancelTrip(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	if err := h.Service.DriverCancelTrip(c.Request.Context(), middleware.ActorID(c), c.Param("id"), input.Reason); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// MarkCompleted handles PATCH /api/trips/:id/complete (driver role).
func (h *TripHandler) MarkCompleted(c *gin.Context) {
	if err := h.Service.MarkCompleted(c.Request.Context(), middleware.ActorID(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": true})
}

// ListMyTrips handles GET /api/driver/trips (driver role).
func (h *TripHandler) ListMyTrips(c *gin.Context) {
	trips, err := h.Service.ListDriverTrips(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// ListMyReservations handles GET /api/trips/reservations
func (h *TripHandler) ListMyReservations(c *gin.Context) {
	trips, err := h.Service.ListPaidReservations(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}
