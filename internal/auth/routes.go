package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers Auth routes. Login and student sign-up are public;
// the session endpoints expect the auth middleware on their group.
func RegisterRoutes(public, private *gin.RouterGroup, handler *Handler) {
	public.POST("/auth/login", handler.Login)
	public.POST("/auth/register", handler.RegisterStudent)

	private.POST("/auth/logout", handler.Logout)
	private.GET("/auth/me", handler.Me)
	private.PUT("/auth/me", handler.UpdateProfile)
}
