package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/couponhub/coupon-marketplace/internal/api/middleware"
)

// ctxSubjectID extracts the authenticated subject id injected by the Auth
// middleware. Its presence proves the middleware ran; a handler reached
// without it is a wiring bug, reported as 401 rather than a panic.
func ctxSubjectID(c echo.Context) (int64, error) {
	id, ok := c.Get(middleware.CtxSubjectID).(int64)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return id, nil
}

// pathID parses the named path parameter as an int64 id.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
