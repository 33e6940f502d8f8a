package router // package router defines how HTTP routes are registered for the API

import (
	"net/http" // method names for CORS

	"github.com/google/uuid"                           // uuid generates request ids
	"github.com/labstack/echo/v4"                      // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"    // echo's stock middleware (recover, CORS, request id)
	"github.com/labstack/gommon/log"                   // application logger

	"github.com/iliyamo/room-reservation/internal/handler"    // import the handlers that implement the endpoints
	"github.com/iliyamo/room-reservation/internal/middleware" // request logging
)

// RegisterMiddleware installs the middleware shared by every route, in
// order: panic recovery, request id, request logging, CORS and the rate
// limiter. A nil limiter is skipped.
func RegisterMiddleware(e *echo.Echo, logger *log.Logger, origins []string, limiter echo.MiddlewareFunc) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(logger))
	// The admin page and the booking form may be served from anywhere, so
	// CORS stays open by default. Only JSON bodies are sent.
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	if limiter != nil {
		e.Use(limiter)
	}
}

// RegisterRoutes registers routes that do not depend on the record store.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the public reservation endpoint.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler) {
	e.POST("/reserve", b.Reserve)
}

// RegisterAdmin registers the administrator endpoints under /admin. They
// are unauthenticated.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler) {
	g := e.Group("/admin")
	g.GET("/reservations", a.ListReservations)
	g.GET("/rooms", a.ListRooms)
	g.POST("/rooms", a.AddRoom)
	g.DELETE("/rooms/:room", a.DeleteRoom)
}

// RegisterStatic serves the landing page at / and every other file under
// dir (stylesheets, scripts, admin.html) by path.
func RegisterStatic(e *echo.Echo, dir string) {
	e.GET("/", handler.Landing(dir))
	e.Static("/", dir)
}
