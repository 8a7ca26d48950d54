package api

import (
	"net/http"

	"github.com/KeshavDaBoss/smartparkv5/internal/api/handler"
	"github.com/KeshavDaBoss/smartparkv5/internal/api/middleware"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(as *service.AuthService, rs *service.ReservationService, occ *service.OccupancyService,
	authMw *middleware.AuthMiddleware, ingestLimiter *middleware.RateLimiter, wsManager *handler.WebSocketManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "SmartPark API is running"})
	})

	if wsManager != nil {
		wsHandler := handler.NewWebSocketHandler(wsManager)
		r.GET("/ws", wsHandler.HandleWebSocket)
	}

	authHandler := handler.NewAuthHandler(as)
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)

	slotH := handler.NewSlotHandler(rs)
	r.GET("/slots", slotH.ListSlots)
	r.GET("/slots/:slot_id", slotH.GetSlot)

	bookingH := handler.NewBookingHandler(rs)
	r.POST("/book", bookingH.Book)
	r.POST("/cancel", bookingH.Cancel)

	sensorH := handler.NewSensorHandler(occ)
	sensorRoutes := r.Group("/sensor")
	if ingestLimiter != nil {
		sensorRoutes.Use(ingestLimiter.Limit())
	}
	{
		sensorRoutes.POST("/esp32", sensorH.ReceiveBatch)
	}

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		v1.GET("/me/reservations", bookingH.MyReservations)
		v1.GET("/sensor-events", sensorH.RecentEvents)
	}
	return r
}
