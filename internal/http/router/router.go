package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunil-gumatimath/react-router/internal/http/handler"
	"github.com/sunil-gumatimath/react-router/internal/render"
)

// SetupRoutes registers the health check and static assets. Every other path
// is a page navigation.
func SetupRoutes(router *gin.Engine, pages *handler.PageHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.StaticFS("/assets", http.FS(render.Assets()))

	router.NoRoute(pages.Serve)
}
