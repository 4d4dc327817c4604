package router

import (
	"github.com/gin-gonic/gin"

	"site-gen-ai-api/internal/interfaces/http/handler"
)

// RegisterAPIRoutes 注册 /api 路由
func RegisterAPIRoutes(api *gin.RouterGroup, site *handler.SiteHandler, generateLimit gin.HandlerFunc) {
	api.POST("/generate-site", generateLimit, site.GenerateSite)
	api.GET("/projects", site.ListProjects)
}
