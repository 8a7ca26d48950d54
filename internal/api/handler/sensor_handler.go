package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"

	"github.com/gin-gonic/gin"
)

type SensorHandler struct {
	occupancyService *service.OccupancyService
}

func NewSensorHandler(occ *service.OccupancyService) *SensorHandler {
	return &SensorHandler{occupancyService: occ}
}

// POST /sensor/esp32
func (h *SensorHandler) ReceiveBatch(c *gin.Context) {
	var batch domain.SensorBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	log.Printf("Received sensor batch from '%s': %v", batch.Source, batch.Distances)

	result, err := h.occupancyService.IngestRemoteBatch(c.Request.Context(), batch)
	if err != nil {
		respondError(c, err, "Không thể xử lý dữ liệu cảm biến")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/v1/sensor-events?limit=50
func (h *SensorHandler) RecentEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, errorBody("limit không hợp lệ"))
		return
	}
	events, err := h.occupancyService.RecentBatches(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Lỗi khi lấy log cảm biến")
		return
	}
	if events == nil {
		events = []domain.SensorEventLog{}
	}
	c.JSON(http.StatusOK, events)
}
