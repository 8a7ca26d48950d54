package handler

import (
	"net/http"

	"github.com/KeshavDaBoss/smartparkv5/internal/api/middleware"
	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	reservationService *service.ReservationService
}

func NewBookingHandler(rs *service.ReservationService) *BookingHandler {
	return &BookingHandler{reservationService: rs}
}

// POST /book
func (h *BookingHandler) Book(c *gin.Context) {
	var req domain.BookingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	date, err := domain.ParseDate(req.BookingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid date format"))
		return
	}

	booking, err := h.reservationService.Book(c.Request.Context(), req.SlotID, req.UserID, date)
	if err != nil {
		respondError(c, err, "Không thể đặt chỗ")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking successful", "booking_id": booking.ID})
}

// POST /cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req domain.CancelRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if req.SlotID == "" || req.UserID == "" {
		c.JSON(http.StatusBadRequest, errorBody("Missing slot_id or user_id"))
		return
	}

	var date *domain.Date
	if req.Date != "" {
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody("Invalid date format"))
			return
		}
		date = &d
	}

	if _, err := h.reservationService.Cancel(c.Request.Context(), req.SlotID, req.UserID, date); err != nil {
		respondError(c, err, "Không thể hủy đặt chỗ")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// GET /api/v1/me/reservations (cần JWT)
func (h *BookingHandler) MyReservations(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	bookings, err := h.reservationService.ListUserReservations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Lỗi khi lấy danh sách đặt chỗ")
		return
	}
	if bookings == nil {
		bookings = []domain.Reservation{}
	}
	c.JSON(http.StatusOK, bookings)
}
