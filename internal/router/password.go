package router

import "github.com/gin-gonic/gin"

func (r *Router) passwordRoutes(version *gin.RouterGroup) {
	reset := version.Group("/password/reset")
	{
		reset.POST("/create", r.resetHandler.Create)
		reset.GET("/find/:token", r.resetHandler.Find)
		reset.POST("/reset", r.resetHandler.Reset)
	}
}
