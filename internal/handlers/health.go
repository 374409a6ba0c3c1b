package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "y-posts-service",
		"version": Version,
	})
}
