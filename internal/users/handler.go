package users

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kasu-ict/grievance-portal/pkg/apperrors"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the admin-facing user directory routes. The caller
// is expected to guard the group with authentication and an admin role check.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	usersGroup := rg.Group("/users")
	{
		usersGroup.GET("", h.List)
		usersGroup.GET("/:id", h.Get)
		usersGroup.POST("", h.Create)
		usersGroup.POST("/:id/manage", h.Manage)
	}
}

func (h *Handler) List(c *gin.Context) {
	var role *Role
	if roleStr := c.Query("role"); roleStr != "" {
		r := Role(roleStr)
		role = &r
	}

	list, err := h.service.ListUsers(c.Request.Context(), role)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) Get(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) Create(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Manage(c *gin.Context) {
	var req struct {
		Action  AccountAction `json:"action"`
		Payload string        `json:"payload"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.service.ManageAccount(c.Request.Context(), c.Param("id"), req.Action, req.Payload)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
