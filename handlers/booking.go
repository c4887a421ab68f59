package handlers

import (
	"errors"
	"net/http"

	bookingRepo "concierge/database/repository/booking"
	"concierge/services/booking"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookMeetingRequest is the direct REST variant of the booking tool call.
type BookMeetingRequest struct {
	Email     string `json:"email" binding:"required"`
	SlotIndex int    `json:"slotIndex" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

// BookingHandler exposes the booking operations over plain REST, mirroring
// the tools the assistant calls.
type BookingHandler struct {
	Service booking.Service
}

func NewBookingHandler(svc booking.Service) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// ListSlotsHandler processes GET /api/slots.
func (h *BookingHandler) ListSlotsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": h.Service.ListSlots(c.Request.Context())})
}

// BookMeetingHandler processes POST /api/bookings.
func (h *BookingHandler) BookMeetingHandler(c *gin.Context) {
	var req BookMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	result := h.Service.Book(c.Request.Context(), req.Email, req.SlotIndex, req.Name)
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Reason})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CancelBookingHandler processes DELETE /api/bookings/:id.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	id := c.Param("id")

	if err := h.Service.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		utils.GetLogger().Error("cancellation failed", zap.String("booking_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not cancel booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": "cancelled"})
}
