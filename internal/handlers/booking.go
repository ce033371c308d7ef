package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/middlewares"
	"github.com/paatrickbarbosa/RoomS/internal/service"
)

type BookingHandler struct {
	svc *service.BookingSvc
}

func NewBookingHandler(svc *service.BookingSvc) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var in struct {
		RoomID           int64                 `json:"roomId" binding:"required"`
		Title            string                `json:"title" binding:"required"`
		Description      string                `json:"description"`
		StartTime        time.Time             `json:"startTime" binding:"required"`
		EndTime          time.Time             `json:"endTime" binding:"required"`
		IsRecurring      bool                  `json:"isRecurring"`
		RecurringType    *domain.RecurringType `json:"recurringType"`
		RecurringEndDate *time.Time            `json:"recurringEndDate"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := middlewares.Principal(c)
	booking, err := h.svc.Create(c.Request.Context(), p, service.CreateBookingInput{
		RoomID:           in.RoomID,
		Title:            in.Title,
		Description:      in.Description,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		IsRecurring:      in.IsRecurring,
		RecurringType:    in.RecurringType,
		RecurringEndDate: in.RecurringEndDate,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /api/bookings?userId=...
func (h *BookingHandler) List(c *gin.Context) {
	p, _ := middlewares.Principal(c)
	var filterUserID int64
	if v := c.Query("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		filterUserID = id
	}
	bookings, err := h.svc.List(c.Request.Context(), p, filterUserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	p, _ := middlewares.Principal(c)
	booking, err := h.svc.Get(c.Request.Context(), p, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// PUT /api/bookings/:id
func (h *BookingHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	var in struct {
		RoomID           *int64                `json:"roomId"`
		Title            *string               `json:"title"`
		Description      *string               `json:"description"`
		StartTime        *time.Time            `json:"startTime"`
		EndTime          *time.Time            `json:"endTime"`
		Status           *domain.BookingStatus `json:"status"`
		IsRecurring      *bool                 `json:"isRecurring"`
		RecurringType    *domain.RecurringType `json:"recurringType"`
		RecurringEndDate *time.Time            `json:"recurringEndDate"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := middlewares.Principal(c)
	booking, err := h.svc.Update(c.Request.Context(), p, id, service.UpdateBookingInput{
		RoomID:           in.RoomID,
		Title:            in.Title,
		Description:      in.Description,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		Status:           in.Status,
		IsRecurring:      in.IsRecurring,
		RecurringType:    in.RecurringType,
		RecurringEndDate: in.RecurringEndDate,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// POST /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	p, _ := middlewares.Principal(c)
	booking, err := h.svc.Cancel(c.Request.Context(), p, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DELETE /api/bookings/:id (admin)
func (h *BookingHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	p, _ := middlewares.Principal(c)
	if err := h.svc.Delete(c.Request.Context(), p, id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/bookings/check-availability
// Also mounted as /api/bookings/:id/check-availability to exclude a booking
// being edited.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var in struct {
		RoomID    int64     `json:"roomId" binding:"required"`
		StartTime time.Time `json:"startTime" binding:"required"`
		EndTime   time.Time `json:"endTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var excludeID int64
	if v := c.Param("id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
			return
		}
		excludeID = id
	}
	available, err := h.svc.CheckAvailability(c.Request.Context(), in.RoomID, in.StartTime, in.EndTime, excludeID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, err
	}
	return id, nil
}
