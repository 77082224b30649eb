package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/web/components"
	"github.com/cristianadrielbraun/qrstudio/web/pages"
)

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *Handler, version string) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(h.log))
	r.Use(gin.Recovery())

	// Static assets
	r.Static("/web/static", "web/static")

	// API routes
	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCodeHandler)
		api.POST("/batch", h.BatchHandler)
		api.GET("/history", h.HistoryHandler)
		api.GET("/history/:id", h.RunHandler)
		api.POST("/logo", h.UploadLogo)
		api.POST("/htmx/toast", h.GenericToast)
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})

	// Pages
	home := components.NewHomeData(version)
	r.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := pages.HomePage(home).Render(c.Request.Context(), c.Writer); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
		}
	})
	return r
}
