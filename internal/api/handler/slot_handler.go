package handler

import (
	"net/http"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"

	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	reservationService *service.ReservationService
}

func NewSlotHandler(rs *service.ReservationService) *SlotHandler {
	return &SlotHandler{reservationService: rs}
}

// GET /slots?date=DDMMYYYY&user_id=...&mall=...
func (h *SlotHandler) ListSlots(c *gin.Context) {
	date, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid date format. Use DDMMYYYY"))
		return
	}

	views, err := h.reservationService.ListSlots(c.Request.Context(), date, c.Query("user_id"), c.Query("mall"))
	if err != nil {
		respondError(c, err, "Lỗi khi lấy danh sách chỗ đỗ xe")
		return
	}
	c.JSON(http.StatusOK, views)
}

// GET /slots/:slot_id?date=DDMMYYYY&user_id=...
func (h *SlotHandler) GetSlot(c *gin.Context) {
	date, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid date format. Use DDMMYYYY"))
		return
	}

	view, err := h.reservationService.ResolveSlot(c.Request.Context(), c.Param("slot_id"), date, c.Query("user_id"))
	if err != nil {
		respondError(c, err, "Lỗi khi lấy thông tin chỗ đỗ xe")
		return
	}
	c.JSON(http.StatusOK, view)
}
