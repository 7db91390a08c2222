package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kasu-ict/grievance-portal/internal/users"
	"github.com/kasu-ict/grievance-portal/pkg/apperrors"
)

type Handler struct {
	tokens    *TokenService
	directory *users.Service
}

func NewHandler(tokens *TokenService, directory *users.Service) *Handler {
	return &Handler{tokens: tokens, directory: directory}
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		ID       string `json:"id"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.directory.Authenticate(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"role":  user.Role,
		"user":  user,
	})
}

// Logout is stateless: the client discards its token. Kept as an endpoint so
// the session boundary stays explicit in the API surface.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentUser(c))
}

// RegisterStudent is the public self sign-up endpoint.
func (h *Handler) RegisterStudent(c *gin.Context) {
	var req users.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.directory.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req users.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.directory.UpdateProfile(c.Request.Context(), CurrentUser(c).ID, req)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
