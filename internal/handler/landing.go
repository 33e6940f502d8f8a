package handler

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// Landing serves index.html from dir for GET /.
func Landing(dir string) echo.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(c echo.Context) error {
		return c.File(index)
	}
}
