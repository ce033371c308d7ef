package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/middlewares"
	"github.com/paatrickbarbosa/RoomS/internal/notify"
)

// Set bundles the handlers mounted on the router.
type Set struct {
	Auth      *AuthHandler
	Rooms     *RoomHandler
	Bookings  *BookingHandler
	Users     *UserHandler
	Dashboard *DashboardHandler
	Hub       *notify.Hub
}

// Register mounts all routes. Room and availability reads are public;
// everything that mutates or exposes user data requires a token, and
// catalogue management is admin-only.
func (s *Set) Register(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/ws", gin.WrapH(s.Hub))

	api := r.Group("/api")

	api.POST("/auth/register", s.Auth.Register)
	api.POST("/auth/login", s.Auth.Login)

	api.GET("/rooms", s.Rooms.List)
	api.GET("/rooms/:id", s.Rooms.Get)
	api.GET("/rooms/:id/status", s.Rooms.Status)

	admin := api.Group("", middlewares.JWTAuth(), middlewares.RequireRole(domain.RoleAdmin))
	{
		admin.POST("/rooms", s.Rooms.Create)
		admin.PUT("/rooms/:id", s.Rooms.Update)
		admin.DELETE("/rooms/:id", s.Rooms.Delete)
		admin.DELETE("/bookings/:id", s.Bookings.Delete)
		admin.GET("/users", s.Users.List)
		admin.GET("/users/:id", s.Users.Get)
	}

	secured := api.Group("", middlewares.JWTAuth())
	{
		secured.GET("/users/me", s.Users.Me)

		secured.POST("/bookings", s.Bookings.Create)
		secured.GET("/bookings", s.Bookings.List)
		secured.GET("/bookings/:id", s.Bookings.Get)
		secured.PUT("/bookings/:id", s.Bookings.Update)
		secured.POST("/bookings/:id/cancel", s.Bookings.Cancel)
		secured.POST("/bookings/check-availability", s.Bookings.CheckAvailability)
		secured.POST("/bookings/:id/check-availability", s.Bookings.CheckAvailability)

		secured.GET("/dashboard/stats", s.Dashboard.Stats)
		secured.GET("/dashboard/todays-bookings", s.Dashboard.TodaysBookings)
		secured.GET("/dashboard/recent-activities", s.Dashboard.RecentActivities)
	}
}
