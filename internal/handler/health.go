package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health handles GET /healthz for load balancers and uptime checks. It does
// not touch the record store, so it stays green while the workbook is
// unreadable; store failures surface as 500s on the API routes instead.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
