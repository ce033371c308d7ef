package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paatrickbarbosa/RoomS/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardSvc
}

func NewDashboardHandler(svc *service.DashboardSvc) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/dashboard/todays-bookings
func (h *DashboardHandler) TodaysBookings(c *gin.Context) {
	bookings, err := h.svc.TodaysSchedule(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /api/dashboard/recent-activities?limit=10
func (h *DashboardHandler) RecentActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	activities, err := h.svc.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}
