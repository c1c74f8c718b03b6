package router

import (
	"github.com/deppfellow/mentorme/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes mounts the routes outside the business API: health,
// the docs UI and its static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
