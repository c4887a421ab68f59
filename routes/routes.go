package routes

import (
	"net/http"
	"time"

	"concierge/config"
	"concierge/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the assistant endpoint.
func RegisterChatRoutes(r *gin.Engine, chat *handlers.ChatHandler) {
	api := r.Group("/api")
	{
		api.POST("/chat", chat.HandleChat)
	}
}

// RegisterBookingRoutes sets up the endpoints mirroring the booking tools.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api")
	{
		api.GET("/slots", bh.ListSlotsHandler)
		api.POST("/bookings", bh.BookMeetingHandler)
		api.DELETE("/bookings/:id", bh.CancelBookingHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, chat *handlers.ChatHandler, bh *handlers.BookingHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.CORSAllowOrigin},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterChatRoutes(r, chat)
	RegisterBookingRoutes(r, bh)
	RegisterHealthRoute(r)
}
