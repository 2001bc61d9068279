// Package router builds the Echo instance: global middleware, the system
// routes and the versioned API.
package router

import (
	"github.com/deppfellow/gearguardian/internal/handler"
	"github.com/deppfellow/gearguardian/internal/middleware"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers, mw *middleware.Middlewares) *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	// Order matters: the request id feeds tracing and the request logger,
	// and the logger reads the enhanced context.
	router.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)
	registerV1Routes(router.Group("/api/v1"), h, mw.Auth)

	return router
}
