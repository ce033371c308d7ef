package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paatrickbarbosa/RoomS/internal/domain"
	"github.com/paatrickbarbosa/RoomS/internal/middlewares"
	"github.com/paatrickbarbosa/RoomS/internal/service"
)

type RoomHandler struct {
	svc   *service.RoomSvc
	avail *service.AvailabilitySvc
}

func NewRoomHandler(svc *service.RoomSvc, avail *service.AvailabilitySvc) *RoomHandler {
	return &RoomHandler{svc: svc, avail: avail}
}

type roomRequest struct {
	Name        string          `json:"name" binding:"required"`
	Capacity    int             `json:"capacity" binding:"required"`
	Type        domain.RoomType `json:"type" binding:"required"`
	Amenities   []string        `json:"amenities"`
	HourlyRate  int64           `json:"hourlyRate" binding:"required"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	IsActive    *bool           `json:"isActive"`
}

func (r roomRequest) input() service.RoomInput {
	return service.RoomInput{
		Name:        r.Name,
		Capacity:    r.Capacity,
		Type:        r.Type,
		Amenities:   r.Amenities,
		HourlyRate:  r.HourlyRate,
		ImageURL:    r.ImageURL,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
}

// GET /api/rooms?date=RFC3339 — active rooms annotated with occupancy.
func (h *RoomHandler) List(c *gin.Context) {
	at := time.Now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be RFC3339"})
			return
		}
		at = parsed
	}
	rooms, err := h.avail.RoomsWithStatus(c.Request.Context(), at)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GET /api/rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	room, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// POST /api/rooms (admin)
func (h *RoomHandler) Create(c *gin.Context) {
	var in roomRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := middlewares.Principal(c)
	room, err := h.svc.Create(c.Request.Context(), p, in.input())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// PUT /api/rooms/:id (admin)
func (h *RoomHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	var in roomRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := middlewares.Principal(c)
	room, err := h.svc.Update(c.Request.Context(), p, id, in.input())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DELETE /api/rooms/:id (admin)
func (h *RoomHandler) Delete(c *gin.Context) {
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

// GET /api/rooms/:id/status?date=RFC3339
func (h *RoomHandler) Status(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	at := time.Now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be RFC3339"})
			return
		}
		at = parsed
	}
	status, err := h.avail.RoomStatus(c.Request.Context(), id, at)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
