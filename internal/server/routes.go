package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user2862486/comfy-cloudflare-uploader/internal/api"
	"github.com/user2862486/comfy-cloudflare-uploader/internal/app"
)

func (s *Server) SetupRoutes(app *app.App) {
	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Simple file server endpoint for locally stored assets.
	s.ginEngine.GET("/file/:filename", handlerWrapper(app, api.GetFile))

	apiV1 := s.ginEngine.Group("/api/v1")
	apiV1.GET("/nodes", handlerWrapper(app, api.ListNodes))
	apiV1.POST("/upload", handlerWrapper(app, api.UploadImages))
	apiV1.POST("/save", handlerWrapper(app, api.SaveImages))
}

func handlerWrapper(app *app.App, f func(c *gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("app", app)
		f(ctx)
	}
}
