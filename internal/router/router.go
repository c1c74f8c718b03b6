// Package router builds the echo router: the global middleware chain, the
// system routes and the /institutionalPrograms routes.
package router

import (
	"net/http"

	"github.com/deppfellow/mentorme/internal/handler"
	"github.com/deppfellow/mentorme/internal/middleware"
	"github.com/deppfellow/mentorme/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires the middleware and routes. Middleware order matters: the
// request id must exist before the logger is enhanced, and the New Relic
// transaction before it is decorated.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		mw.Global.BodyLimit(),
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
	)

	if mw.RateLimit.Enabled() {
		router.Use(mw.RateLimit.Limit())
	}

	registerSystemRoutes(router, h)
	registerProgramRoutes(router.Group("/institutionalPrograms"), h.Program, mw.Auth)

	return router
}

// registerProgramRoutes mounts the program endpoint on g. Mutating routes
// require a session when authentication is enabled.
func registerProgramRoutes(g *echo.Group, p *handler.ProgramHandler, auth *middleware.AuthMiddleware) {
	var protect []echo.MiddlewareFunc
	if auth != nil && auth.Enabled() {
		protect = append(protect, auth.RequireAuth)
	}

	g.GET("", handler.Handle(p.Handler, p.SearchPrograms, http.StatusOK, &handler.SearchProgramsRequest{}))
	g.POST("", handler.Handle(p.Handler, p.CreateProgram, http.StatusCreated, &handler.CreateProgramRequest{}), protect...)

	g.GET("/:id", handler.Handle(p.Handler, p.GetProgram, http.StatusOK, &handler.ProgramIDRequest{}))
	g.POST("/:id", handler.Handle(p.Handler, p.UpdateProgram, http.StatusOK, &handler.UpdateProgramRequest{}), protect...)
	g.DELETE("/:id", handler.HandleNoContent(p.Handler, p.DeleteProgram, http.StatusOK, &handler.ProgramIDRequest{}), protect...)

	g.GET("/:id/mentees", handler.Handle(p.Handler, p.GetProgramMentees, http.StatusOK, &handler.ProgramIDRequest{}))
	g.GET("/:id/mentors", handler.Handle(p.Handler, p.GetProgramMentors, http.StatusOK, &handler.ProgramIDRequest{}))
}
