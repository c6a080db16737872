package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/BrianDuong3003/Room-Booking-System/config"
	"github.com/BrianDuong3003/Room-Booking-System/internal/auth"
	"github.com/BrianDuong3003/Room-Booking-System/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, issuer *auth.TokenIssuer, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Initialize middleware
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authed := mw.RequireAuth(issuer)
	admin := mw.RequireAdmin()

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/logout", authed, h.Logout)
			authGroup.POST("/changepass", authed, h.ChangePassword)
			authGroup.GET("/me", authed, h.Me)
		}

		buildings := api.Group("/buildings")
		{
			buildings.GET("", caching, h.GetBuildings)
			buildings.POST("", authed, admin, h.CreateBuilding)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", caching, h.GetRooms)
			rooms.GET("/search", caching, h.SearchRooms)
			rooms.GET("/:id", h.GetRoomByID)
			rooms.POST("", authed, admin, h.CreateRoom)
			rooms.PUT("/:id", authed, admin, h.UpdateRoom)
			rooms.DELETE("/:id", authed, admin, h.DeleteRoom)
		}

		schedules := api.Group("/schedules")
		{
			schedules.GET("/available", caching, h.GetSchedulesInRange)
			schedules.GET("/room/:roomName", authed, h.GetSchedulesByRoomName)
			schedules.GET("/:id", h.GetScheduleByID)
			schedules.POST("", authed, admin, h.CreateSchedule)
			schedules.PUT("/:id", authed, admin, h.UpdateSchedule)
			schedules.DELETE("/:id", authed, admin, h.DeleteSchedule)
		}

		bookings := api.Group("/bookings")
		bookings.Use(authed)
		{
			bookings.POST("", h.CreateBooking)
			bookings.POST("/cancel/:id", h.CancelBooking)
			bookings.GET("/my-bookings", h.GetMyBookings)
			bookings.GET("", admin, h.GetAllBookings)
			bookings.GET("/date/:date", admin, h.GetBookingsByDate)
			bookings.GET("/user/:userId", admin, h.GetBookingsByUser)
			bookings.GET("/:roomName", h.GetBookingsByRoomName)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("/vapid_public_key", h.GetVAPIDPublicKey)
			notifications.GET("/subscriptions", h.GetSubscription)
			notifications.PUT("/subscriptions", h.PutSubscription)
			notifications.DELETE("/subscriptions", h.DeleteSubscription)
		}
	}

	return r
}
