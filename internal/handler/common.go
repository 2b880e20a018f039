// Package handler contains the HTTP handlers for all resources.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"mechanic-shop-api/internal/middleware"
)

// mechanicID extracts the authenticated mechanic's id placed in the context
// by the JWT middleware.
func mechanicID(c echo.Context) (uint64, error) {
	if id, ok := c.Get(middleware.MechanicIDKey).(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("no mechanic id in context")
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
