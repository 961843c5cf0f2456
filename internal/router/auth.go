package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(version *gin.RouterGroup) {
	// Public routes (no authentication required)
	version.POST("/signup", r.authHandler.Signup)
	version.GET("/signup/activate/:token", r.authHandler.Activate)
	version.POST("/login", r.authHandler.Login)

	// Protected routes (bearer token required)
	protected := version.Group("")
	protected.Use(r.authMw.RequireAuth())
	{
		protected.POST("/logout", r.authHandler.Logout)
		protected.GET("/user", r.authHandler.CurrentUser)
		protected.POST("/password/change", r.authHandler.ChangePassword)
	}
}
