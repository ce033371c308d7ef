package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paatrickbarbosa/RoomS/internal/middlewares"
	"github.com/paatrickbarbosa/RoomS/internal/service"
)

type UserHandler struct {
	svc *service.UserSvc
}

func NewUserHandler(svc *service.UserSvc) *UserHandler {
	return &UserHandler{svc: svc}
}

// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	p, _ := middlewares.Principal(c)
	user, err := h.svc.Get(c.Request.Context(), p.ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /api/users (admin)
func (h *UserHandler) List(c *gin.Context) {
	p, _ := middlewares.Principal(c)
	users, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/users/:id (admin)
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
