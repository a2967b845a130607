package http

import (
	nethttp "net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "meetnotes/backend/docs"
	"meetnotes/backend/internal/handler"
	"meetnotes/backend/internal/metrics"
)

// Options configures the cross-cutting parts of the router.
type Options struct {
	CORSOrigins []string
	BodyLimit   string
	StaticDir   string
}

func NewRouter(
	healthHandler *handler.HealthHandler,
	summarizeHandler *handler.SummarizeHandler,
	shareHandler *handler.ShareHandler,
	mailHandler *handler.MailHandler,
	m *metrics.Metrics,
	opts Options,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(MetricsMiddleware(m))
	e.Use(RequestLoggerMiddleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))
	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	healthHandler.RegisterRoutes(api)
	summarizeHandler.RegisterRoutes(api)
	shareHandler.RegisterRoutes(api)
	mailHandler.RegisterRoutes(api)

	shareHandler.RegisterPageRoutes(e)

	registerStatic(e, opts.StaticDir)

	return e
}
